package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/sportexhq/sportex/internal/auth"
	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// googleOAuthConfig is initialized once from the server config. It stays
// nil when Google login isn't configured.
var googleOAuthConfig *oauth2.Config

func (s *Server) initOAuthConfig() {
	googleOAuthConfig = &oauth2.Config{
		ClientID:     s.config.GoogleOauthClientID,
		ClientSecret: s.config.GoogleOauthClientSecret,
		RedirectURL:  s.config.GoogleOauthRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// generateStateOauthCookie sets a random state cookie to tie the callback
// to the browser that started the flow (CSRF protection).
func generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := hex.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return state
}

// handleGoogleLogin starts the OAuth flow by redirecting to Google's
// consent page.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.config.OAuthEnabled() {
		s.errorJSON(w, errors.New("google login is not configured"), http.StatusNotImplemented)
		return
	}
	if googleOAuthConfig == nil {
		s.initOAuthConfig()
	}
	state := generateStateOauthCookie(w)
	http.Redirect(w, r, googleOAuthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// handleGoogleCallback finishes the OAuth flow: it validates the state,
// exchanges the code, fetches the Google profile, upserts a user for it
// and hands out the same app JWT the password flow issues.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.config.OAuthEnabled() || googleOAuthConfig == nil {
		s.errorJSON(w, errors.New("google login is not configured"), http.StatusNotImplemented)
		return
	}

	oauthState, err := r.Cookie("oauthstate")
	if err != nil || r.FormValue("state") != oauthState.Value {
		s.errorJSON(w, errors.New("invalid oauth state"), http.StatusUnauthorized)
		return
	}

	code := r.FormValue("code")
	token, err := googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		s.errorJSON(w, fmt.Errorf("failed to exchange code for token: %w", err), http.StatusInternalServerError)
		return
	}

	oauth2Service, err := googleOauth2.NewService(context.Background(), option.WithTokenSource(googleOAuthConfig.TokenSource(context.Background(), token)))
	if err != nil {
		s.errorJSON(w, fmt.Errorf("failed to create oauth service: %w", err), http.StatusInternalServerError)
		return
	}
	userInfo, err := oauth2Service.Userinfo.Get().Do()
	if err != nil {
		s.errorJSON(w, fmt.Errorf("failed to get user info: %w", err), http.StatusInternalServerError)
		return
	}

	// Upsert: find the user by email or create an OAuth-only account
	// (no password hash) with the default athlete role.
	user, err := s.findUserByEmail(r.Context(), userInfo.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
			return
		}
		newUser := model.User{
			Email:    userInfo.Email,
			Name:     userInfo.Name,
			Role:     model.RoleAthlete,
			IsActive: true,
			Privacy:  model.PrivacyPublic,
		}
		doc, docErr := model.ToDocument(newUser)
		if docErr != nil {
			s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
			return
		}
		id, insErr := s.store.Collection(model.CollectionUsers).Insert(r.Context(), doc)
		if insErr != nil {
			s.errorJSON(w, errors.New("failed to create user"), http.StatusInternalServerError)
			return
		}
		newUser.ID = id
		user = &newUser
	}

	appToken, err := auth.GenerateJWT(user.ID, user.Email, string(user.Role), s.config.JwtSecret, 0)
	if err != nil {
		s.errorJSON(w, errors.New("could not generate token"), http.StatusInternalServerError)
		return
	}

	// Hand the token back to the frontend when one is configured,
	// otherwise answer with plain JSON (useful for curl testing).
	if s.config.FrontendURL != "" {
		http.Redirect(w, r, fmt.Sprintf("%s/auth/callback?token=%s", s.config.FrontendURL, appToken), http.StatusTemporaryRedirect)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: appToken, TokenType: "bearer"})
}
