package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// createTeamPayload defines the JSON body for team creation.
type createTeamPayload struct {
	Name     string `json:"name"`
	Sport    string `json:"sport"`
	Location string `json:"location"`
}

// handleCreateTeam creates a team owned by the calling coach.
func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if user.Role != model.RoleCoach && user.Role != model.RoleOrganizer && user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("only coaches/organizers can create teams"), http.StatusForbidden)
		return
	}

	var payload createTeamPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Sport == "" {
		s.errorJSON(w, errors.New("name and sport are required"), http.StatusBadRequest)
		return
	}

	team := model.Team{
		Name:          payload.Name,
		CoachUserID:   user.ID,
		Sport:         payload.Sport,
		Location:      payload.Location,
		RosterUserIDs: []string{},
	}
	doc, err := model.ToDocument(team)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	id, err := s.store.Collection(model.CollectionTeams).Insert(r.Context(), doc)
	if err != nil {
		s.errorJSON(w, errors.New("could not create team"), http.StatusInternalServerError)
		return
	}
	team.ID = id

	s.writeJSON(w, http.StatusCreated, envelope{"team": team})
}

// handleGetTeam fetches a single team by id.
func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	doc, err := s.store.Collection(model.CollectionTeams).FindOne(r.Context(), store.Filter{"id": teamID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("team not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	var team model.Team
	if err := model.FromDocument(doc, &team); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"team": team})
}

// handleAddToRoster adds a user to a team's roster. Only the owning coach
// or an admin may modify the roster. Membership is unique; adding an
// existing member is a no-op that emits no notification.
func (s *Server) handleAddToRoster(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	teamID := chi.URLParam(r, "id")
	addedUserID := r.URL.Query().Get("user_id")
	if addedUserID == "" {
		s.errorJSON(w, errors.New("user_id query parameter is required"), http.StatusBadRequest)
		return
	}

	teams := s.store.Collection(model.CollectionTeams)
	doc, err := teams.FindOne(r.Context(), store.Filter{"id": teamID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("team not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	var team model.Team
	if err := model.FromDocument(doc, &team); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	if team.CoachUserID != user.ID && user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("only the team's coach can modify the roster"), http.StatusForbidden)
		return
	}

	// Roster membership is unique; order is preserved for display.
	alreadyMember := false
	for _, memberID := range team.RosterUserIDs {
		if memberID == addedUserID {
			alreadyMember = true
			break
		}
	}

	if !alreadyMember {
		roster := append(team.RosterUserIDs, addedUserID)
		err = teams.UpdateOne(r.Context(), store.Filter{"id": teamID}, store.Document{"roster_user_ids": roster})
		if err != nil {
			s.errorJSON(w, errors.New("could not update roster"), http.StatusInternalServerError)
			return
		}
		team.RosterUserIDs = roster

		// Invite notification to the added user, mirrored to email
		// when the mailer is configured. Best-effort either way.
		notification := model.Notification{
			UserID: addedUserID,
			Type:   model.NotificationInvite,
			Title:  "Team Invite",
			Body:   fmt.Sprintf("You were added to %s", team.Name),
		}
		recipientEmail := ""
		if added, err := s.findUserByID(r.Context(), addedUserID); err == nil {
			recipientEmail = added.Email
		}
		s.emitter.SendWithEmail(r.Context(), notification, recipientEmail)
	}

	s.writeJSON(w, http.StatusOK, envelope{"ok": true, "roster": team.RosterUserIDs})
}
