// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_manager/internal/adapters/observability"
	"hotel_manager/internal/app"
	"hotel_manager/internal/domain"
)

const sessionCookie = "hm_session"

// maximum accepted size for the hotel form, photo included
const maxFormBytes = 10 << 20

type Handlers struct {
	Auth     *app.AuthService
	Recovery *app.RecoveryService
	Dash     *app.DashboardService
	Render   *Renderer
}

// page is the data handed to every template.
type page struct {
	Title        string
	Active       string // sidebar section: dashboard|hotels
	User         *domain.Profile
	Message      string
	Error        string
	Stats        domain.Stats
	Hotels       []domain.Hotel
	Hotel        *domain.Hotel
	Draft        domain.HotelDraft
	Currencies   []domain.Currency
	Email        string
	Name         string
	RefreshTo    string // meta-refresh target (password-recovery pause)
	RefreshAfter int    // seconds
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	s.mux.Get("/login", h.loginForm)
	s.mux.Post("/login", h.login)
	s.mux.Get("/register", h.registerForm)
	s.mux.Post("/register", h.register)
	s.mux.Get("/forgot-password", h.forgotForm)
	s.mux.Post("/forgot-password", h.forgot)
	s.mux.Get("/reset-password", h.resetForm)
	s.mux.Post("/reset-password", h.reset)
	s.mux.Post("/logout", h.logout)

	s.mux.Group(func(r chi.Router) {
		r.Use(SessionGuard(h.Auth))
		r.Get("/dashboard", h.dashboard)
		r.Get("/hotels", h.hotels)
		r.Get("/hotels/new", h.newHotel)
		r.Post("/hotels", h.createHotel)
		r.Get("/hotels/{id}/edit", h.editHotel)
		r.Post("/hotels/{id}", h.updateHotel)
		r.Get("/hotels/{id}/delete", h.confirmDelete)
		r.Post("/hotels/{id}/delete", h.deleteHotel)
	})
}

// ---- session plumbing ----

type ctxKey int

const authKey ctxKey = iota

type authCtx struct {
	sid  string
	sess domain.Session
}

func authFrom(ctx context.Context) authCtx {
	ac, _ := ctx.Value(authKey).(authCtx)
	return ac
}

func setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// forceLogout tears the session down after a 401 (or an invalid user fetch)
// and sends the browser back to the login screen, whichever call hit it.
func (h *Handlers) forceLogout(w http.ResponseWriter, r *http.Request, sid string) {
	observability.ObserveSession("teardown")
	h.Auth.Teardown(r.Context(), sid)
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ---- auth ----

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if _, ok := h.Auth.Resolve(r.Context(), c.Value); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}
	h.Render.Render(w, http.StatusOK, "login", page{Title: "Connexion"})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render.Render(w, http.StatusBadRequest, "login", page{Title: "Connexion", Error: "Formulaire invalide."})
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.Render.Render(w, http.StatusUnprocessableEntity, "login", page{
			Title: "Connexion", Email: email, Error: "L'email et le mot de passe sont obligatoires.",
		})
		return
	}

	res := h.Auth.Login(r.Context(), email, password)
	if !res.OK {
		h.Render.Render(w, http.StatusUnauthorized, "login", page{Title: "Connexion", Email: email, Error: res.Message})
		return
	}
	setSessionCookie(w, res.SID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handlers) registerForm(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, http.StatusOK, "register", page{Title: "S'inscrire"})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render.Render(w, http.StatusBadRequest, "register", page{Title: "S'inscrire", Error: "Formulaire invalide."})
		return
	}
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	accept := r.PostFormValue("accept_terms") == "1"

	msg, ok := h.Auth.Register(r.Context(), name, email, password, accept)
	if !ok {
		h.Render.Render(w, http.StatusUnprocessableEntity, "register", page{
			Title: "S'inscrire", Name: name, Email: email, Error: msg,
		})
		return
	}
	// registration does not imply a session: back to the login screen
	h.Render.Render(w, http.StatusOK, "login", page{Title: "Connexion", Message: msg})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		h.Auth.Logout(r.Context(), c.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ---- password recovery ----

func (h *Handlers) forgotForm(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, http.StatusOK, "forgot", page{Title: "Mot de passe oublié"})
}

func (h *Handlers) forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render.Render(w, http.StatusBadRequest, "forgot", page{Title: "Mot de passe oublié", Error: "Formulaire invalide."})
		return
	}
	email := r.PostFormValue("email")
	res := h.Recovery.RequestReset(r.Context(), email)

	data := page{Title: "Mot de passe oublié", Email: email, Message: res.Message}
	if res.Proceed {
		// fixed UX pause before the reset form, then an unconditional move
		data.RefreshTo = "/reset-password?email=" + url.QueryEscape(email)
		data.RefreshAfter = int(app.ResetFormDelay.Seconds())
	} else {
		data.Error = res.Message
		data.Message = ""
	}
	h.Render.Render(w, http.StatusOK, "forgot", data)
}

func (h *Handlers) resetForm(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, http.StatusOK, "reset", page{
		Title: "Nouveau mot de passe",
		Email: r.URL.Query().Get("email"),
	})
}

func (h *Handlers) reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render.Render(w, http.StatusBadRequest, "reset", page{Title: "Nouveau mot de passe", Error: "Formulaire invalide."})
		return
	}
	email := r.PostFormValue("email")
	msg, ok := h.Recovery.ResetPassword(r.Context(), email, r.PostFormValue("new_password"), r.PostFormValue("confirm_password"))
	if !ok {
		h.Render.Render(w, http.StatusUnprocessableEntity, "reset", page{Title: "Nouveau mot de passe", Email: email, Error: msg})
		return
	}
	h.Render.Render(w, http.StatusOK, "login", page{Title: "Connexion", Message: msg})
}

// ---- dashboard & hotels ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	ov, err := h.Dash.Overview(r.Context(), ac.sess.Token)
	if err != nil {
		// failed user fetch or a 401 anywhere in the bundle: session invalid
		log.Warn().Err(err).Msg("dashboard overview failed, forcing logout")
		h.forceLogout(w, r, ac.sid)
		return
	}
	h.Render.Render(w, http.StatusOK, "dashboard", page{
		Title:  "Dashboard",
		Active: "dashboard",
		User:   &ov.User,
		Stats:  ov.Stats,
		Error:  hotelsBanner(ov.HotelsErr),
	})
}

func hotelsBanner(err error) string {
	if err == nil {
		return ""
	}
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "Impossible de charger les hôtels."
}

func (h *Handlers) hotels(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	list, err := h.Dash.ListHotels(r.Context(), ac.sess.Token)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	data := page{Title: "Liste des Hôtels", Active: "hotels", User: &ac.sess.User, Hotels: list}
	if err != nil {
		data.Hotels = nil
		data.Error = hotelsBanner(err)
	}
	h.Render.Render(w, http.StatusOK, "hotels", data)
}

func (h *Handlers) renderHotels(w http.ResponseWriter, r *http.Request, list []domain.Hotel, message, errMsg string) {
	ac := authFrom(r.Context())
	h.Render.Render(w, http.StatusOK, "hotels", page{
		Title: "Liste des Hôtels", Active: "hotels", User: &ac.sess.User,
		Hotels: list, Message: message, Error: errMsg,
	})
}

func (h *Handlers) newHotel(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	h.Render.Render(w, http.StatusOK, "hotel_form", page{
		Title: "Créer un nouvel hôtel", Active: "hotels", User: &ac.sess.User,
		Draft:      domain.HotelDraft{Currency: domain.CurrencyXOF},
		Currencies: domain.Currencies,
	})
}

// draftFromForm reads the multipart hotel form into a draft. A missing photo
// part is legal and leaves Draft.Photo nil.
func draftFromForm(r *http.Request) (domain.HotelDraft, error) {
	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		return domain.HotelDraft{}, err
	}
	d := domain.HotelDraft{
		Name:          r.PostFormValue("name"),
		Address:       r.PostFormValue("address"),
		Email:         r.PostFormValue("email"),
		PhoneNumber:   r.PostFormValue("phone_number"),
		PricePerNight: r.PostFormValue("price_per_night"),
		Currency:      domain.Currency(r.PostFormValue("currency")),
	}
	if !d.Currency.Valid() {
		d.Currency = domain.CurrencyXOF
	}

	f, fh, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return d, nil
	}
	if err != nil {
		return domain.HotelDraft{}, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return domain.HotelDraft{}, err
	}
	if len(content) > 0 {
		d.Photo = &domain.PhotoUpload{Filename: fh.Filename, Content: content}
	}
	return d, nil
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	d, err := draftFromForm(r)
	if err != nil {
		h.Render.Render(w, http.StatusBadRequest, "hotel_form", page{
			Title: "Créer un nouvel hôtel", Active: "hotels", User: &ac.sess.User,
			Draft: d, Currencies: domain.Currencies, Error: "Formulaire invalide.",
		})
		return
	}

	list, err := h.Dash.CreateHotel(r.Context(), ac.sess.Token, d)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	if err != nil {
		// the form stays open with the draft so the user can correct input
		h.Render.Render(w, http.StatusUnprocessableEntity, "hotel_form", page{
			Title: "Créer un nouvel hôtel", Active: "hotels", User: &ac.sess.User,
			Draft: d, Currencies: domain.Currencies,
			Error: app.MutationError(err, "Échec de la création de l'hôtel."),
		})
		return
	}
	h.renderHotels(w, r, list, "Hôtel créé avec succès.", "")
}

func hotelID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handlers) editHotel(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	id, err := hotelID(r)
	if err != nil {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}
	hotel, err := h.Dash.GetHotel(r.Context(), ac.sess.Token, id)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	if err != nil {
		list, _ := h.Dash.ListHotels(r.Context(), ac.sess.Token)
		h.renderHotels(w, r, list, "", "Hôtel introuvable.")
		return
	}
	h.Render.Render(w, http.StatusOK, "hotel_form", page{
		Title: "Modifier l'hôtel", Active: "hotels", User: &ac.sess.User,
		Hotel: &hotel, Draft: domain.SeedDraft(hotel), Currencies: domain.Currencies,
	})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	id, err := hotelID(r)
	if err != nil {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}
	d, err := draftFromForm(r)
	if err != nil {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}

	list, err := h.Dash.UpdateHotel(r.Context(), ac.sess.Token, id, d)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	if err != nil {
		hotel := domain.Hotel{ID: id}
		h.Render.Render(w, http.StatusUnprocessableEntity, "hotel_form", page{
			Title: "Modifier l'hôtel", Active: "hotels", User: &ac.sess.User,
			Hotel: &hotel, Draft: d, Currencies: domain.Currencies,
			Error: app.MutationError(err, "Échec de la modification de l'hôtel."),
		})
		return
	}
	h.renderHotels(w, r, list, "Hôtel modifié avec succès.", "")
}

func (h *Handlers) confirmDelete(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	id, err := hotelID(r)
	if err != nil {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}
	hotel, err := h.Dash.GetHotel(r.Context(), ac.sess.Token, id)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	if err != nil {
		list, _ := h.Dash.ListHotels(r.Context(), ac.sess.Token)
		h.renderHotels(w, r, list, "", "Hôtel introuvable.")
		return
	}
	h.Render.Render(w, http.StatusOK, "hotel_delete", page{
		Title: "Supprimer l'hôtel", Active: "hotels", User: &ac.sess.User, Hotel: &hotel,
	})
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	ac := authFrom(r.Context())
	id, err := hotelID(r)
	if err != nil {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil || r.PostFormValue("confirm") != "1" {
		// not confirmed: no backend call, list untouched
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
		return
	}

	list, err := h.Dash.DeleteHotel(r.Context(), ac.sess.Token, id)
	if errors.Is(err, domain.ErrUnauthorized) {
		h.forceLogout(w, r, ac.sid)
		return
	}
	if err != nil {
		stale, _ := h.Dash.ListHotels(r.Context(), ac.sess.Token)
		h.renderHotels(w, r, stale, "", "Échec de la suppression de l'hôtel.")
		return
	}
	h.renderHotels(w, r, list, "Hôtel supprimé.", "")
}
