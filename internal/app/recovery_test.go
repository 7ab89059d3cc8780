package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_manager/internal/app"
)

func TestRequestReset_SuccessProceeds(t *testing.T) {
	api := &fakeAPI{
		forgotFn: func(email string) (string, error) {
			return "Lien de réinitialisation envoyé.", nil
		},
	}
	svc := app.NewRecoveryService(api)

	res := svc.RequestReset(context.Background(), "a@b.c")
	if !res.Proceed {
		t.Fatalf("expected proceed after success")
	}
	if res.Message != "Lien de réinitialisation envoyé." {
		t.Fatalf("unexpected message: %s", res.Message)
	}
}

func TestRequestReset_FailureStays(t *testing.T) {
	api := &fakeAPI{
		forgotFn: func(email string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	svc := app.NewRecoveryService(api)

	res := svc.RequestReset(context.Background(), "a@b.c")
	if res.Proceed {
		t.Fatalf("must not proceed on failure")
	}
	if res.Message == "" {
		t.Fatalf("expected a display message")
	}
}

func TestResetPassword_MismatchSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	svc := app.NewRecoveryService(api)

	msg, ok := svc.ResetPassword(context.Background(), "a@b.c", "new1", "new2")
	if ok {
		t.Fatalf("expected rejection")
	}
	if msg != "Les mots de passe ne correspondent pas." {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(api.resetCalls) != 0 {
		t.Fatalf("reset endpoint must not be called on mismatch")
	}
}

func TestResetPassword_MatchCallsOnce(t *testing.T) {
	api := &fakeAPI{}
	svc := app.NewRecoveryService(api)

	msg, ok := svc.ResetPassword(context.Background(), "a@b.c", "newpw", "newpw")
	if !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	if len(api.resetCalls) != 1 {
		t.Fatalf("expected exactly one reset call, got %d", len(api.resetCalls))
	}
	if c := api.resetCalls[0]; c.email != "a@b.c" || c.password != "newpw" {
		t.Fatalf("unexpected payload: %+v", c)
	}
}

func TestResetPassword_ServerFailureStaysInPhase(t *testing.T) {
	api := &fakeAPI{resetErr: errors.New("boom")}
	svc := app.NewRecoveryService(api)

	msg, ok := svc.ResetPassword(context.Background(), "a@b.c", "pw", "pw")
	if ok {
		t.Fatalf("expected failure")
	}
	if msg != "Erreur lors de la réinitialisation." {
		t.Fatalf("unexpected message: %q", msg)
	}
}
