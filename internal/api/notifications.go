package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// handleListNotifications returns the caller's notifications, oldest
// first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	docs, err := s.store.Collection(model.CollectionNotifications).Find(r.Context(), store.Filter{"user_id": user.ID})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	notifications := []model.Notification{}
	for _, doc := range docs {
		var n model.Notification
		if err := model.FromDocument(doc, &n); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}

	s.writeJSON(w, http.StatusOK, envelope{"results": notifications})
}

// handleMarkNotificationRead flips the read flag on one of the caller's
// notifications. The filter includes the caller's id, so marking someone
// else's notification comes back as not-found rather than succeeding.
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	notificationID := chi.URLParam(r, "id")
	err = s.store.Collection(model.CollectionNotifications).UpdateOne(
		r.Context(),
		store.Filter{"id": notificationID, "user_id": user.ID},
		store.Document{"read": true},
	)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("notification not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"ok": true})
}
