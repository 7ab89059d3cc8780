package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_manager/internal/domain"
)

// AuthService owns the login/registration flow: it talks to the backend auth
// endpoints and persists the resulting session. API failures never escape as
// raw errors; they are folded into user-visible messages.
type AuthService struct {
	api      domain.AuthAPI
	sessions domain.SessionStore
	newSID   func() string
}

func NewAuthService(api domain.AuthAPI, sessions domain.SessionStore) *AuthService {
	return &AuthService{api: api, sessions: sessions, newSID: uuid.NewString}
}

type LoginResult struct {
	SID     string
	User    domain.Profile
	Message string
	OK      bool
}

func (s *AuthService) Login(ctx context.Context, email, password string) LoginResult {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return LoginResult{Message: "Erreur : " + userMessage(err)}
	}

	sid := s.newSID()
	if err := s.sessions.Put(ctx, sid, sess); err != nil {
		log.Error().Err(err).Msg("session store write failed")
		return LoginResult{Message: "Erreur : session indisponible, réessayez."}
	}
	return LoginResult{
		SID:     sid,
		User:    sess.User,
		Message: "Connexion réussie ! Bienvenue " + sess.User.Name,
		OK:      true,
	}
}

// Register creates an account but never a session: the user is sent back to
// the login screen on success. The terms gate aborts before any network call.
func (s *AuthService) Register(ctx context.Context, name, email, password string, acceptTerms bool) (string, bool) {
	if !acceptTerms {
		return "Veuillez accepter les termes et la politique", false
	}
	if err := s.api.Register(ctx, name, email, password); err != nil {
		return "Erreur : " + userMessage(err), false
	}
	return "Inscription réussie ! Vous pouvez maintenant vous connecter.", true
}

// Logout tears the session down locally and tells the backend best-effort;
// a failed revocation call never keeps the user logged in.
func (s *AuthService) Logout(ctx context.Context, sid string) {
	sess, ok, err := s.sessions.Get(ctx, sid)
	if err != nil {
		log.Warn().Err(err).Msg("session lookup failed during logout")
	}
	if ok && sess.Token != "" {
		if err := s.api.Logout(ctx, sess.Token); err != nil {
			log.Warn().Err(err).Msg("backend logout failed")
		}
	}
	if err := s.sessions.Del(ctx, sid); err != nil {
		log.Warn().Err(err).Msg("session delete failed")
	}
}

// Resolve looks a session up for the auth guard.
func (s *AuthService) Resolve(ctx context.Context, sid string) (domain.Session, bool) {
	sess, ok, err := s.sessions.Get(ctx, sid)
	if err != nil {
		log.Warn().Err(err).Msg("session lookup failed")
		return domain.Session{}, false
	}
	return sess, ok
}

// Teardown drops a session without touching the backend; used when a 401
// proves the token already dead.
func (s *AuthService) Teardown(ctx context.Context, sid string) {
	if err := s.sessions.Del(ctx, sid); err != nil {
		log.Warn().Err(err).Msg("session teardown failed")
	}
}

// userMessage extracts the display string for a failed API call: the server's
// message when there is one, the transport error text otherwise.
func userMessage(err error) string {
	if errors.Is(err, domain.ErrUnauthorized) {
		return "Identifiants invalides."
	}
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}
