package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/registration"
	"github.com/sportexhq/sportex/internal/store"
)

// createEventPayload defines the JSON body for event creation.
// Capacity defaults to 100 when omitted.
type createEventPayload struct {
	Title       string    `json:"title"`
	Sport       string    `json:"sport"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
}

// handleCreateEvent creates an event owned by the calling organizer.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if user.Role != model.RoleOrganizer && user.Role != model.RoleCoach && user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("only organizers/coaches can create events"), http.StatusForbidden)
		return
	}

	var payload createEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if payload.Title == "" || payload.Sport == "" || payload.Location == "" {
		s.errorJSON(w, errors.New("title, sport, and location are required"), http.StatusBadRequest)
		return
	}
	if payload.Capacity == 0 {
		payload.Capacity = 100
	}
	if payload.Capacity < 0 {
		s.errorJSON(w, errors.New("capacity must be positive"), http.StatusBadRequest)
		return
	}

	event := model.Event{
		Title:           payload.Title,
		Sport:           payload.Sport,
		Description:     payload.Description,
		Location:        payload.Location,
		StartsAt:        payload.StartsAt,
		EndsAt:          payload.EndsAt,
		Capacity:        payload.Capacity,
		OrganizerUserID: user.ID,
	}
	doc, err := model.ToDocument(event)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	id, err := s.store.Collection(model.CollectionEvents).Insert(r.Context(), doc)
	if err != nil {
		s.errorJSON(w, errors.New("could not create event"), http.StatusInternalServerError)
		return
	}
	event.ID = id

	s.writeJSON(w, http.StatusCreated, envelope{"event": event})
}

// handleListEvents returns a paginated list of events, optionally filtered
// by sport.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.Filter{}
	if sport := q.Get("sport"); sport != "" {
		filter["sport"] = sport
	}

	docs, err := s.store.Collection(model.CollectionEvents).Find(r.Context(), filter)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	events := []model.Event{}
	for _, doc := range docs {
		var event model.Event
		if err := model.FromDocument(doc, &event); err != nil {
			continue
		}
		events = append(events, event)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	s.writeJSON(w, http.StatusOK, paginate(events, page, pageSize))
}

// handleGetEvent fetches a single event by id.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	doc, err := s.store.Collection(model.CollectionEvents).FindOne(r.Context(), store.Filter{"id": eventID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	var event model.Event
	if err := model.FromDocument(doc, &event); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"event": event})
}

// handleRegisterForEvent signs the caller up for an event. The capacity
// and waitlist decision lives entirely in the registration engine; this
// handler only translates errors to status codes.
func (s *Server) handleRegisterForEvent(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	eventID := chi.URLParam(r, "id")
	reg, err := s.registrations.Register(r.Context(), eventID, user.ID)
	if err != nil {
		if errors.Is(err, registration.ErrEventNotFound) {
			s.errorJSON(w, err, http.StatusNotFound)
			return
		}
		s.errorJSON(w, errors.New("could not register for event"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"registration": reg})
}

// handleCoachDashboard aggregates the caller's teams and events with all
// registrations, giving a coach one view of their world.
func (s *Server) handleCoachDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if user.Role != model.RoleCoach && user.Role != model.RoleAdmin {
		s.errorJSON(w, errors.New("only coaches can view this dashboard"), http.StatusForbidden)
		return
	}

	teams, err := s.store.Collection(model.CollectionTeams).Find(r.Context(), store.Filter{"coach_user_id": user.ID})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	events, err := s.store.Collection(model.CollectionEvents).Find(r.Context(), store.Filter{"organizer_user_id": user.ID})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	regs, err := s.store.Collection(model.CollectionRegistrations).Find(r.Context(), store.Filter{})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"teams":         teams,
		"events":        events,
		"registrations": regs,
	})
}
