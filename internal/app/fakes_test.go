package app_test

import (
	"context"
	"errors"
	"sync"

	"hotel_manager/internal/domain"
)

// ---- fakes ----

type resetCall struct{ email, password string }

type fakeAPI struct {
	mu sync.Mutex

	loginFn  func(email, password string) (domain.Session, error)
	forgotFn func(email string) (string, error)
	userFn   func(token string) (domain.Profile, error)
	countFn  func(path string) (int, error)
	hotelsFn func() ([]domain.Hotel, error)

	registerErr   error
	registerCalls int
	logoutCalls   int
	logoutToken   string
	resetErr      error
	resetCalls    []resetCall

	createErr   error
	createCalls int
	updateErr   error
	updateCalls int
	deleteErr   error
	deleteIDs   []int64

	// hotels returned after a successful mutation re-fetch
	hotelsAfterMutation []domain.Hotel
	mutated             bool
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if f.loginFn != nil {
		return f.loginFn(email, password)
	}
	return domain.Session{}, errors.New("no loginFn")
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) error {
	f.mu.Lock()
	f.registerCalls++
	f.mu.Unlock()
	return f.registerErr
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	f.logoutCalls++
	f.logoutToken = token
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	if f.forgotFn != nil {
		return f.forgotFn(email)
	}
	return "", nil
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	f.resetCalls = append(f.resetCalls, resetCall{email, password})
	f.mu.Unlock()
	return "ok", f.resetErr
}

func (f *fakeAPI) CurrentUser(ctx context.Context, token string) (domain.Profile, error) {
	if f.userFn != nil {
		return f.userFn(token)
	}
	return domain.Profile{Name: "Test"}, nil
}

func (f *fakeAPI) MyHotels(ctx context.Context, token string) ([]domain.Hotel, error) {
	f.mu.Lock()
	mutated := f.mutated
	f.mu.Unlock()
	if mutated && f.hotelsAfterMutation != nil {
		return f.hotelsAfterMutation, nil
	}
	if f.hotelsFn != nil {
		return f.hotelsFn()
	}
	return nil, nil
}

func (f *fakeAPI) PublicHotels(ctx context.Context) ([]domain.Hotel, error) { return nil, nil }

func (f *fakeAPI) Hotel(ctx context.Context, token string, id int64) (domain.Hotel, error) {
	hs, err := f.MyHotels(ctx, token)
	if err != nil {
		return domain.Hotel{}, err
	}
	for _, h := range hs {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeAPI) CreateHotel(ctx context.Context, token string, d domain.HotelDraft) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return domain.Hotel{}, f.createErr
	}
	f.mutated = true
	return domain.Hotel{ID: 1, Name: d.Name}, nil
}

func (f *fakeAPI) UpdateHotel(ctx context.Context, token string, id int64, d domain.HotelDraft) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return domain.Hotel{}, f.updateErr
	}
	f.mutated = true
	return domain.Hotel{ID: id, Name: d.Name}, nil
}

func (f *fakeAPI) DeleteHotel(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteIDs = append(f.deleteIDs, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mutated = true
	return nil
}

func (f *fakeAPI) Count(ctx context.Context, token, path string) (int, error) {
	if f.countFn != nil {
		return f.countFn(path)
	}
	return 0, nil
}

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	putErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]domain.Session{}}
}

func (s *fakeStore) Get(ctx context.Context, sid string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	return sess, ok, nil
}

func (s *fakeStore) Put(ctx context.Context, sid string, sess domain.Session) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = sess
	return nil
}

func (s *fakeStore) Del(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
