package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrNotFound     = errors.New("backend: not found")
)

// APIError carries a structured error payload from the backend: a message
// and/or a field -> validation messages mapping.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// Flatten joins every field-level validation message into one display string.
// Fields are visited in sorted order so the output is stable.
func (e *APIError) Flatten() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k]...)
	}
	return strings.Join(msgs, ", ")
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (Profile, error)
}

type HotelAPI interface {
	MyHotels(ctx context.Context, token string) ([]Hotel, error)
	PublicHotels(ctx context.Context) ([]Hotel, error)
	Hotel(ctx context.Context, token string, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, token string, d HotelDraft) (Hotel, error)
	UpdateHotel(ctx context.Context, token string, id int64, d HotelDraft) (Hotel, error)
	DeleteHotel(ctx context.Context, token string, id int64) error
}

// StatsAPI exposes the counting endpoints; each returns the length of the
// array the backend serves at that path.
type StatsAPI interface {
	Count(ctx context.Context, token, path string) (int, error)
}

type API interface {
	AuthAPI
	HotelAPI
	StatsAPI
}

// SessionStore persists sessions keyed by an opaque sid. Writes are atomic
// single-key operations.
type SessionStore interface {
	Get(ctx context.Context, sid string) (Session, bool, error)
	Put(ctx context.Context, sid string, s Session) error
	Del(ctx context.Context, sid string) error
}
