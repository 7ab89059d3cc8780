package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_manager/internal/app"
	"hotel_manager/internal/domain"
)

func newDash(api *fakeAPI) *app.DashboardService {
	return app.NewDashboardService(api, api, api)
}

func TestFetchStats_OneFailureDefaultsToZero(t *testing.T) {
	lengths := map[string]int{
		"/forms":    3,
		"/users":    1,
		"/emails":   0,
		"/entities": 2,
	}
	api := &fakeAPI{
		countFn: func(path string) (int, error) {
			if path == "/messages" {
				return 0, errors.New("remote 500")
			}
			return lengths[path], nil
		},
	}
	svc := newDash(api)

	st, err := svc.FetchStats(context.Background(), "tok")
	if err != nil {
		t.Fatalf("a plain failure must not abort the bundle: %v", err)
	}
	want := domain.Stats{Formulaires: 3, Messages: 0, Utilisateurs: 1, Emails: 0, Entites: 2}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
}

func TestFetchStats_UnauthorizedAbortsBundle(t *testing.T) {
	api := &fakeAPI{
		countFn: func(path string) (int, error) {
			if path == "/users" {
				return 0, domain.ErrUnauthorized
			}
			return 4, nil
		},
	}
	svc := newDash(api)

	_, err := svc.FetchStats(context.Background(), "expired")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestOverview_UserFailureIsFatal(t *testing.T) {
	api := &fakeAPI{
		userFn: func(token string) (domain.Profile, error) {
			return domain.Profile{}, domain.ErrUnauthorized
		},
	}
	svc := newDash(api)

	_, err := svc.Overview(context.Background(), "dead-token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestOverview_HotelsUnauthorizedIsFatal(t *testing.T) {
	api := &fakeAPI{
		hotelsFn: func() ([]domain.Hotel, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	svc := newDash(api)

	_, err := svc.Overview(context.Background(), "expired")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("a rejected token on the hotel fetch must be fatal, got %v", err)
	}
}

func TestOverview_HotelFailureIsIsolated(t *testing.T) {
	api := &fakeAPI{
		hotelsFn: func() ([]domain.Hotel, error) {
			return nil, errors.New("remote 503")
		},
		countFn: func(path string) (int, error) { return 5, nil },
	}
	svc := newDash(api)

	ov, err := svc.Overview(context.Background(), "tok")
	if err != nil {
		t.Fatalf("hotel failure must not be fatal: %v", err)
	}
	if ov.HotelsErr == nil {
		t.Fatalf("expected isolated hotels error")
	}
	if len(ov.Hotels) != 0 {
		t.Fatalf("hotel list must be cleared on failure")
	}
	if ov.Stats.Formulaires != 5 || ov.Stats.Hotels != 0 {
		t.Fatalf("stats must survive a hotel failure: %+v", ov.Stats)
	}
}

func TestOverview_HotelCountDerivedFromList(t *testing.T) {
	api := &fakeAPI{
		hotelsFn: func() ([]domain.Hotel, error) {
			return []domain.Hotel{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := newDash(api)

	ov, err := svc.Overview(context.Background(), "tok")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ov.Stats.Hotels != 2 {
		t.Fatalf("hotels count = %d, want 2", ov.Stats.Hotels)
	}
}

func TestCreateHotel_RefetchesAuthoritativeList(t *testing.T) {
	api := &fakeAPI{
		hotelsFn:            func() ([]domain.Hotel, error) { return []domain.Hotel{{ID: 1, Name: "Ancien"}}, nil },
		hotelsAfterMutation: []domain.Hotel{{ID: 1, Name: "Ancien"}, {ID: 2, Name: "Hôtel Teranga"}},
	}
	svc := newDash(api)

	list, err := svc.CreateHotel(context.Background(), "tok", domain.HotelDraft{Name: "Hôtel Teranga"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	seen := 0
	for _, h := range list {
		if h.Name == "Hôtel Teranga" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("new hotel must appear exactly once, saw %d in %+v", seen, list)
	}
	if api.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", api.createCalls)
	}
}

func TestCreateHotel_FailureSkipsRefetch(t *testing.T) {
	refetches := 0
	api := &fakeAPI{
		createErr: &domain.APIError{Status: 422, Fields: map[string][]string{
			"email": {"L'email est invalide."},
			"name":  {"Le nom est obligatoire."},
		}},
		hotelsFn: func() ([]domain.Hotel, error) { refetches++; return nil, nil },
	}
	svc := newDash(api)

	_, err := svc.CreateHotel(context.Background(), "tok", domain.HotelDraft{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if refetches != 0 {
		t.Fatalf("must not refetch after a failed mutation")
	}
	if msg := app.MutationError(err, "Échec de la création de l'hôtel."); msg != "L'email est invalide., Le nom est obligatoire." {
		t.Fatalf("unexpected flattened errors: %q", msg)
	}
}

func TestDeleteHotel_SingleCallThenRefetch(t *testing.T) {
	api := &fakeAPI{
		hotelsFn:            func() ([]domain.Hotel, error) { return []domain.Hotel{{ID: 7}}, nil },
		hotelsAfterMutation: []domain.Hotel{},
	}
	svc := newDash(api)

	list, err := svc.DeleteHotel(context.Background(), "tok", 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(api.deleteIDs) != 1 || api.deleteIDs[0] != 7 {
		t.Fatalf("expected exactly one DELETE for id 7, got %v", api.deleteIDs)
	}
	if len(list) != 0 {
		t.Fatalf("expected refreshed empty list, got %+v", list)
	}
}

func TestMutationError_GenericFallback(t *testing.T) {
	if msg := app.MutationError(errors.New("dial tcp: timeout"), "Échec de la création de l'hôtel."); msg != "Échec de la création de l'hôtel." {
		t.Fatalf("unexpected message: %q", msg)
	}
}
