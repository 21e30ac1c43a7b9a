package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// handleAdminOverview returns per-collection document counts.
func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("admins only"), http.StatusForbidden)
		return
	}

	overview := envelope{}
	counts := map[string]string{
		"users":         model.CollectionUsers,
		"athletes":      model.CollectionProfiles,
		"teams":         model.CollectionTeams,
		"events":        model.CollectionEvents,
		"registrations": model.CollectionRegistrations,
	}
	for label, collection := range counts {
		n, err := s.store.Collection(collection).Count(r.Context(), store.Filter{})
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		overview[label] = n
	}

	s.writeJSON(w, http.StatusOK, overview)
}

// moderatePayload defines the JSON body for a moderation action.
type moderatePayload struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

// validModerationTargets and validModerationActions bound the enums the
// boundary accepts; the store itself is schemaless.
var validModerationTargets = map[string]bool{
	"user": true, "athleteprofile": true, "team": true, "event": true,
}

var validModerationActions = map[string]bool{
	"approve": true, "reject": true, "flag": true, "suspend": true,
}

// handleModerate appends a moderation audit record.
func (s *Server) handleModerate(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("admins only"), http.StatusForbidden)
		return
	}

	var payload moderatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if !validModerationTargets[payload.TargetType] {
		s.errorJSON(w, errors.New("target_type must be one of user, athleteprofile, team, event"), http.StatusBadRequest)
		return
	}
	if payload.TargetID == "" {
		s.errorJSON(w, errors.New("target_id is required"), http.StatusBadRequest)
		return
	}
	if !validModerationActions[payload.Action] {
		s.errorJSON(w, errors.New("action must be one of approve, reject, flag, suspend"), http.StatusBadRequest)
		return
	}

	record := model.Moderation{
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Action:     payload.Action,
		Reason:     payload.Reason,
	}
	doc, err := model.ToDocument(record)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if _, err := s.store.Collection(model.CollectionModerationLogs).Insert(r.Context(), doc); err != nil {
		s.errorJSON(w, errors.New("could not record moderation action"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"ok": true})
}
