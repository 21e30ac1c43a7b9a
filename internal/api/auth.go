package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sportexhq/sportex/internal/auth"
	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// registerPayload defines the JSON body expected for account registration.
type registerPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// loginPayload defines the JSON body expected for login.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the body returned by both auth endpoints.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleRoot is the unauthenticated service banner.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{"message": "Sportex API running"})
}

// handleRegister creates a new user account and returns a bearer token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" || payload.Name == "" {
		s.errorJSON(w, errors.New("email, password, and name are required"), http.StatusBadRequest)
		return
	}
	if !strings.Contains(payload.Email, "@") {
		s.errorJSON(w, errors.New("invalid email address"), http.StatusBadRequest)
		return
	}

	role := model.Role(payload.Role)
	if payload.Role == "" {
		role = model.RoleAthlete
	}
	if !model.ValidRole(role) {
		s.errorJSON(w, errors.New("role must be one of athlete, coach, organizer, admin, guest"), http.StatusBadRequest)
		return
	}

	_, err := s.findUserByEmail(r.Context(), payload.Email)
	if err == nil {
		s.errorJSON(w, errors.New("email already registered"), http.StatusConflict)
		return
	}
	if !errors.Is(err, store.ErrNoDocuments) {
		s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}

	hashedPassword, err := auth.HashPassword(payload.Password)
	if err != nil {
		s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}

	user := model.User{
		Email:        payload.Email,
		PasswordHash: hashedPassword,
		Name:         payload.Name,
		Role:         role,
		IsActive:     true,
		Privacy:      model.PrivacyPublic,
	}
	doc, err := model.ToDocument(user)
	if err != nil {
		s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	id, err := s.store.Collection(model.CollectionUsers).Insert(r.Context(), doc)
	if err != nil {
		s.errorJSON(w, errors.New("could not create user"), http.StatusInternalServerError)
		return
	}

	tokenString, err := auth.GenerateJWT(id, user.Email, string(user.Role), s.config.JwtSecret, 0)
	if err != nil {
		s.errorJSON(w, errors.New("could not generate token"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: tokenString, TokenType: "bearer"})
}

// handleLogin authenticates an existing user via email/password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}

	if payload.Email == "" || payload.Password == "" {
		s.errorJSON(w, errors.New("email and password are required"), http.StatusBadRequest)
		return
	}

	user, err := s.findUserByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("invalid credentials"), http.StatusUnauthorized)
			return
		}
		s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}

	// OAuth-only accounts have no password hash and can't log in here.
	if user.PasswordHash == "" || !auth.CheckPasswordHash(payload.Password, user.PasswordHash) {
		s.errorJSON(w, errors.New("invalid credentials"), http.StatusUnauthorized)
		return
	}

	tokenString, err := auth.GenerateJWT(user.ID, user.Email, string(user.Role), s.config.JwtSecret, 0)
	if err != nil {
		s.errorJSON(w, errors.New("could not generate token"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tokenString, TokenType: "bearer"})
}

// handleMe returns the caller's own user record, minus the password hash.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}
