package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie = "linkly_oauthstate"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateMaxAge = 20 * time.Minute
)

// Config holds the settings for the OAuth login flow.
type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SessionSecret []byte
	HomeURL       string
	SecureCookies bool
}

// Handler serves the OAuth login/callback/logout endpoints. Authentication
// is delegated entirely to Google; the only thing kept from the exchange
// is the verified email, which becomes the session subject.
type Handler struct {
	oauth  *oauth2.Config
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

type googleUser struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// NewHandler creates a new OAuth handler.
func NewHandler(cfg Config, logger *zap.Logger) *Handler {
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Login starts the OAuth code flow.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.setStateCookie(w)
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the code flow and issues a session cookie.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	state, err := r.Cookie(stateCookie)
	if err != nil || r.FormValue("state") != state.Value {
		h.logger.Warn("oauth callback with missing or mismatched state")
		http.Redirect(w, r, h.cfg.HomeURL, http.StatusTemporaryRedirect)

		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.logger.Error("oauth code exchange failed", zap.Error(err))
		http.Error(w, "authentication failed", http.StatusInternalServerError)

		return
	}

	user, err := h.fetchUser(r, token)
	if err != nil {
		h.logger.Error("failed to fetch user info", zap.Error(err))
		http.Error(w, "authentication failed", http.StatusInternalServerError)

		return
	}

	if user.Email == "" || !user.VerifiedEmail {
		h.logger.Warn("oauth user without verified email")
		http.Error(w, "authentication failed", http.StatusForbidden)

		return
	}

	session, expiresAt, err := NewSessionToken(h.cfg.SessionSecret, user.Email)
	if err != nil {
		h.logger.Error("failed to sign session token", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login successful", zap.String("email", user.Email))
	http.Redirect(w, r, h.cfg.HomeURL, http.StatusTemporaryRedirect)
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.cfg.HomeURL, http.StatusTemporaryRedirect)
}

func (h *Handler) fetchUser(r *http.Request, token *oauth2.Token) (*googleUser, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (h *Handler) setStateCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(stateMaxAge),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return state
}
