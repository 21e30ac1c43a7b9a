package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sportexhq/sportex/internal/auth"
	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

// handleSeed bootstraps demo data: an admin, a coach, an organizer, ten
// athletes with profiles, one team, and two events with a few confirmed
// registrations. It is idempotent — if any user exists the call is a
// no-op, so running it twice never duplicates anything.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users := s.store.Collection(model.CollectionUsers)

	existing, err := users.Count(ctx, store.Filter{})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if existing > 0 {
		s.writeJSON(w, http.StatusOK, envelope{"message": "Already seeded"})
		return
	}

	adminID, err := s.seedUser(ctx, "admin@sportex.io", "admin123", "Admin", model.RoleAdmin, "")
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	coachID, err := s.seedUser(ctx, "coach@sportex.io", "coach123", "Coach Carla", model.RoleCoach, "Austin, TX")
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	orgID, err := s.seedUser(ctx, "org@sportex.io", "org123", "Org Omar", model.RoleOrganizer, "Dallas, TX")
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	sports := []string{"basketball", "soccer", "track", "volleyball"}
	positions := []string{"G", "F", "M", "S"}
	profiles := s.store.Collection(model.CollectionProfiles)

	var athleteIDs []string
	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		email := fmt.Sprintf("athlete%d@sportex.io", i+1)
		name := fmt.Sprintf("Athlete %d", i+1)
		uid, err := s.seedUser(ctx, email, "pass1234", name, model.RoleAthlete, "Austin, TX")
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		athleteIDs = append(athleteIDs, uid)

		achievements := []string{"All-Conference"}
		if i%2 == 0 {
			achievements = []string{"All-County", "MVP Nominee"}
		}
		var recent []model.PerformanceEntry
		for d := 0; d < 5; d++ {
			recent = append(recent, model.PerformanceEntry{
				Date:   now.AddDate(0, 0, -d).Format("2006-01-02"),
				Metric: "ppg",
				Value:  6 + float64(i%5) + float64(d)*0.2,
			})
		}
		profile := model.AthleteProfile{
			UserID:   uid,
			Sport:    sports[i%len(sports)],
			Position: positions[i%len(positions)],
			Bio:      "Aspiring athlete ready to compete.",
			Stats: map[string]float64{
				"ppg": 8 + float64(i)*0.7,
				"apg": 2 + float64(i)*0.3,
			},
			Achievements:      achievements,
			Media:             []model.MediaItem{{Type: "image", URL: "https://placehold.co/600x400", Thumb: "https://placehold.co/300x200"}},
			RecentPerformance: recent,
			UpdatedAt:         now,
		}
		doc, err := model.ToDocument(profile)
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		if _, err := profiles.Insert(ctx, doc); err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
	}

	// One team owned by the coach, with the first five athletes rostered.
	team := model.Team{
		Name:          "Austin Hawks",
		CoachUserID:   coachID,
		Sport:         "basketball",
		Location:      "Austin, TX",
		RosterUserIDs: athleteIDs[:5],
	}
	teamDoc, err := model.ToDocument(team)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	teamID, err := s.store.Collection(model.CollectionTeams).Insert(ctx, teamDoc)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	// Two events run by the organizer.
	e1, err := s.seedEvent(ctx, model.Event{
		Title: "Spring Showcase", Sport: "basketball",
		Description: "Open run for scouts", Location: "Austin, TX",
		StartsAt: now.AddDate(0, 0, 7), EndsAt: now.AddDate(0, 0, 7).Add(3 * time.Hour),
		Capacity: 50, OrganizerUserID: orgID,
	})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	e2, err := s.seedEvent(ctx, model.Event{
		Title: "Summer Combine", Sport: "soccer",
		Description: "Drills and scrimmages", Location: "Dallas, TX",
		StartsAt: now.AddDate(0, 0, 21), EndsAt: now.AddDate(0, 0, 21).Add(4 * time.Hour),
		Capacity: 80, OrganizerUserID: orgID,
	})
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	// First three athletes start out confirmed on the showcase.
	registrations := s.store.Collection(model.CollectionRegistrations)
	for _, uid := range athleteIDs[:3] {
		reg := model.Registration{EventID: e1, UserID: uid, Status: model.StatusConfirmed}
		doc, err := model.ToDocument(reg)
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		if _, err := registrations.Insert(ctx, doc); err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"message":      "Seeded",
		"admin_id":     adminID,
		"coach_id":     coachID,
		"organizer_id": orgID,
		"team_id":      teamID,
		"event_ids":    []string{e1, e2},
	})
}

func (s *Server) seedUser(ctx context.Context, email, password, name string, role model.Role, location string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	user := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Location:     location,
		IsActive:     true,
		Privacy:      model.PrivacyPublic,
	}
	doc, err := model.ToDocument(user)
	if err != nil {
		return "", err
	}
	id, err := s.store.Collection(model.CollectionUsers).Insert(ctx, doc)
	if err != nil {
		return "", errors.New("could not seed user " + email + ": " + err.Error())
	}
	return id, nil
}

func (s *Server) seedEvent(ctx context.Context, event model.Event) (string, error) {
	doc, err := model.ToDocument(event)
	if err != nil {
		return "", err
	}
	return s.store.Collection(model.CollectionEvents).Insert(ctx, doc)
}
