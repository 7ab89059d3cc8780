package app

import (
	"context"
	"time"

	"hotel_manager/internal/domain"
)

// ResetFormDelay is the pause between a confirmed reset request and showing
// the new-password form. It is a UX pause, not a server-driven signal: once
// the request succeeds the transition is unconditional.
const ResetFormDelay = 3 * time.Second

// RecoveryService drives the two-phase password recovery flow:
// request a reset for an email, then submit the new password.
type RecoveryService struct {
	api domain.AuthAPI
}

func NewRecoveryService(api domain.AuthAPI) *RecoveryService {
	return &RecoveryService{api: api}
}

type ResetRequest struct {
	Message string
	Proceed bool // move on to the new-password form after ResetFormDelay
}

func (s *RecoveryService) RequestReset(ctx context.Context, email string) ResetRequest {
	msg, err := s.api.ForgotPassword(ctx, email)
	if err != nil {
		m := userMessage(err)
		if m == "" {
			m = "Cet email n'existe pas dans notre base."
		}
		return ResetRequest{Message: m}
	}
	if msg == "" {
		msg = "Email trouvé, préparez le reset..."
	}
	return ResetRequest{Message: msg, Proceed: true}
}

// ResetPassword submits the new password. A confirmation mismatch aborts
// before any network call and leaves the flow in the reset phase.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) (string, bool) {
	if newPassword != confirmPassword {
		return "Les mots de passe ne correspondent pas.", false
	}
	if _, err := s.api.ResetPassword(ctx, email, newPassword); err != nil {
		return "Erreur lors de la réinitialisation.", false
	}
	return "Mot de passe réinitialisé avec succès !", true
}
