package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_manager/internal/domain"
)

// DashboardService orchestrates the dashboard's data: the current user, the
// stats bundle, and the hotel list, plus the hotel create/update/delete
// lifecycle. It is the only place coordinating concurrent backend calls.
type DashboardService struct {
	auth   domain.AuthAPI
	hotels domain.HotelAPI
	stats  domain.StatsAPI
}

func NewDashboardService(auth domain.AuthAPI, hotels domain.HotelAPI, stats domain.StatsAPI) *DashboardService {
	return &DashboardService{auth: auth, hotels: hotels, stats: stats}
}

// Overview is the dashboard landing data. HotelsErr is isolated: a failed
// hotel fetch keeps the session and the stats. A failed user fetch or a 401
// from any sub-fetch invalidates the whole view (the caller then forces
// logout): a dead token is dead for every endpoint.
type Overview struct {
	User      domain.Profile
	Stats     domain.Stats
	Hotels    []domain.Hotel
	HotelsErr error
}

// Overview fetches user, stats and hotels concurrently.
func (s *DashboardService) Overview(ctx context.Context, token string) (Overview, error) {
	var (
		out       Overview
		hotelsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.auth.CurrentUser(gctx, token)
		if err != nil {
			return err // session considered invalid
		}
		out.User = u
		return nil
	})
	g.Go(func() error {
		hs, err := s.hotels.MyHotels(gctx, token)
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		out.Hotels, hotelsErr = hs, err
		return nil
	})
	g.Go(func() error {
		st, err := s.FetchStats(gctx, token)
		if err != nil {
			return err
		}
		out.Stats = st
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out.HotelsErr = hotelsErr
	if hotelsErr != nil {
		out.Hotels = nil
	}
	out.Stats.Hotels = len(out.Hotels)
	return out, nil
}

// FetchStats issues the five counting sub-fetches concurrently and joins
// them; each one independently defaults to 0 on its own failure, so one
// failing counter never blocks the other four. The exception is a 401:
// a rejected token aborts the bundle so the caller can tear the session
// down. The result replaces the previous bundle atomically, after all
// five settle.
func (s *DashboardService) FetchStats(ctx context.Context, token string) (domain.Stats, error) {
	var st domain.Stats
	targets := []struct {
		dst  *int
		path string
	}{
		{&st.Formulaires, "/forms"},
		{&st.Messages, "/messages"},
		{&st.Utilisateurs, "/users"},
		{&st.Emails, "/emails"},
		{&st.Entites, "/entities"},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			n, err := s.stats.Count(gctx, token, t.path)
			if errors.Is(err, domain.ErrUnauthorized) {
				return err
			}
			if err != nil {
				log.Warn().Str("endpoint", t.path).Err(err).Msg("stat fetch failed, defaulting to 0")
				n = 0
			}
			*t.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}

// ListHotels fetches the authoritative hotel list. Navigation back to the
// hotels section always re-fetches; there is no cross-view cache.
func (s *DashboardService) ListHotels(ctx context.Context, token string) ([]domain.Hotel, error) {
	return s.hotels.MyHotels(ctx, token)
}

// MutationError is a failed create/update surfaced to the form: the
// flattened field messages when the backend sent them, a generic message
// otherwise. The form stays open so the user can correct input.
func MutationError(err error, generic string) string {
	var ae *domain.APIError
	if errors.As(err, &ae) {
		if flat := ae.Flatten(); flat != "" {
			return flat
		}
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return "Session expirée, reconnectez-vous."
	}
	return generic
}

// CreateHotel creates the record then re-fetches the full list: no local
// insert, the list is always the server's view after a mutation.
func (s *DashboardService) CreateHotel(ctx context.Context, token string, d domain.HotelDraft) ([]domain.Hotel, error) {
	if _, err := s.hotels.CreateHotel(ctx, token, d); err != nil {
		return nil, err
	}
	return s.hotels.MyHotels(ctx, token)
}

// UpdateHotel overwrites the full record then re-fetches, same contract as
// CreateHotel.
func (s *DashboardService) UpdateHotel(ctx context.Context, token string, id int64, d domain.HotelDraft) ([]domain.Hotel, error) {
	if _, err := s.hotels.UpdateHotel(ctx, token, id, d); err != nil {
		return nil, err
	}
	return s.hotels.MyHotels(ctx, token)
}

// DeleteHotel issues exactly one DELETE then re-fetches. On failure the
// caller keeps showing the stale list until the next successful fetch.
func (s *DashboardService) DeleteHotel(ctx context.Context, token string, id int64) ([]domain.Hotel, error) {
	if err := s.hotels.DeleteHotel(ctx, token, id); err != nil {
		return nil, err
	}
	return s.hotels.MyHotels(ctx, token)
}

// GetHotel loads one record to seed the edit form.
func (s *DashboardService) GetHotel(ctx context.Context, token string, id int64) (domain.Hotel, error) {
	return s.hotels.Hotel(ctx, token, id)
}
