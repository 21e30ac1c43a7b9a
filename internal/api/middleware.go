package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sportexhq/sportex/internal/auth"
	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// contextKey is a custom type for context keys so this package's values
// can't collide with another package's.
type contextKey string

// userContextKey stores the authenticated *model.User in the request
// context after the middleware has resolved the token.
const userContextKey = contextKey("user")

// authMiddleware protects routes that require authentication. It expects
// an "Authorization: Bearer <token>" header, validates the token, and
// resolves the claims to a stored user: first by the subject id, then by
// the email claim when the id doesn't resolve. Either lookup path may
// succeed; callers just get the user.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""

		authHeader := r.Header.Get("Authorization")
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
			tokenString = headerParts[1]
		}

		if tokenString == "" {
			s.errorJSON(w, errors.New("authorization token is required"), http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateJWT(tokenString, s.config.JwtSecret)
		if err != nil {
			s.errorJSON(w, errors.New("invalid or expired token"), http.StatusUnauthorized)
			return
		}

		user, err := s.findUserByID(r.Context(), claims.Subject)
		if err != nil {
			if !errors.Is(err, store.ErrNoDocuments) {
				s.errorJSON(w, errors.New("internal server error"), http.StatusInternalServerError)
				return
			}
			// The subject id didn't resolve; fall back to the email
			// claim before giving up on the token.
			if claims.Email != "" {
				user, err = s.findUserByEmail(r.Context(), claims.Email)
			}
			if user == nil || err != nil {
				s.errorJSON(w, errors.New("user not found"), http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser retrieves the authenticated user placed in the context by
// authMiddleware. Only handlers behind the middleware may call it.
func (s *Server) currentUser(r *http.Request) (*model.User, error) {
	user, ok := r.Context().Value(userContextKey).(*model.User)
	if !ok {
		// Indicates a route wired without the middleware; a server bug.
		return nil, errors.New("could not retrieve user from context")
	}
	return user, nil
}

// findUserByID fetches a user document by its id field.
func (s *Server) findUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, store.ErrNoDocuments
	}
	doc, err := s.store.Collection(model.CollectionUsers).FindOne(ctx, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := model.FromDocument(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// findUserByEmail fetches a user document by email.
func (s *Server) findUserByEmail(ctx context.Context, email string) (*model.User, error) {
	doc, err := s.store.Collection(model.CollectionUsers).FindOne(ctx, store.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := model.FromDocument(doc, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
