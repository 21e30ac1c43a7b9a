package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/performance"
	"github.com/sportexhq/sportex/internal/store"
	"github.com/sportexhq/sportex/internal/visibility"
)

// profilePayload defines the JSON body for the profile upsert. Recent
// performance is deliberately absent: it is maintained by the performance
// importer and survives profile edits untouched.
type profilePayload struct {
	Sport        string             `json:"sport"`
	Position     string             `json:"position"`
	Bio          string             `json:"bio"`
	HeightCM     *int               `json:"height_cm"`
	WeightKG     *int               `json:"weight_kg"`
	Stats        map[string]float64 `json:"stats"`
	Achievements []string           `json:"achievements"`
	Media        []model.MediaItem  `json:"media"`
}

// handleUpsertMyProfile creates or updates the caller's athlete profile.
// updated_at is refreshed on every write.
func (s *Server) handleUpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorJSON(w, errors.New("bad request: could not decode JSON"), http.StatusBadRequest)
		return
	}
	if payload.Sport == "" {
		s.errorJSON(w, errors.New("sport is required"), http.StatusBadRequest)
		return
	}
	if payload.Stats == nil {
		payload.Stats = map[string]float64{}
	}
	if payload.Achievements == nil {
		payload.Achievements = []string{}
	}
	if payload.Media == nil {
		payload.Media = []model.MediaItem{}
	}

	profiles := s.store.Collection(model.CollectionProfiles)
	now := time.Now().UTC()

	set := store.Document{
		"user_id":      user.ID,
		"sport":        payload.Sport,
		"position":     payload.Position,
		"bio":          payload.Bio,
		"stats":        payload.Stats,
		"achievements": payload.Achievements,
		"media":        payload.Media,
		"updated_at":   now.Format(time.RFC3339),
	}
	if payload.HeightCM != nil {
		set["height_cm"] = *payload.HeightCM
	}
	if payload.WeightKG != nil {
		set["weight_kg"] = *payload.WeightKG
	}

	err = profiles.UpdateOne(r.Context(), store.Filter{"user_id": user.ID}, set)
	if errors.Is(err, store.ErrNoDocuments) {
		set["recent_performance"] = []model.PerformanceEntry{}
		_, err = profiles.Insert(r.Context(), set)
	}
	if err != nil {
		s.errorJSON(w, errors.New("could not save profile"), http.StatusInternalServerError)
		return
	}

	doc, err := profiles.FindOne(r.Context(), store.Filter{"user_id": user.ID})
	if err != nil {
		s.errorJSON(w, errors.New("could not load saved profile"), http.StatusInternalServerError)
		return
	}
	var profile model.AthleteProfile
	if err := model.FromDocument(doc, &profile); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"profile": profile})
}

// handleGetAthlete returns a single athlete profile, filtered through the
// owner's privacy tier for the requesting user.
func (s *Server) handleGetAthlete(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	athleteID := chi.URLParam(r, "id")
	doc, err := s.store.Collection(model.CollectionProfiles).FindOne(r.Context(), store.Filter{"id": athleteID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("athlete not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	var profile model.AthleteProfile
	if err := model.FromDocument(doc, &profile); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	// The privacy tier lives on the owning user, not the profile.
	// A missing owner defaults to public rather than erroring.
	privacy := model.PrivacyPublic
	if owner, err := s.findUserByID(r.Context(), profile.UserID); err == nil && owner.Privacy != "" {
		privacy = owner.Privacy
	}

	view, err := visibility.Resolve(&profile, privacy, visibility.Actor{UserID: user.ID, Role: user.Role})
	if err != nil {
		if errors.Is(err, visibility.ErrPrivateProfile) {
			s.errorJSON(w, err, http.StatusForbidden)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

// handleListAthletes returns a filtered, paginated list of athlete
// profiles. sport and position filter the profile directly; location goes
// through the owning users; min_stat_key/min_stat_value filter on the
// stats map, and profiles missing the key never match.
func (s *Server) handleListAthletes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.Filter{}
	if sport := q.Get("sport"); sport != "" {
		filter["sport"] = sport
	}
	if position := q.Get("position"); position != "" {
		filter["position"] = position
	}
	if location := q.Get("location"); location != "" {
		userDocs, err := s.store.Collection(model.CollectionUsers).Find(r.Context(), store.Filter{"location": location})
		if err != nil {
			s.errorJSON(w, err, http.StatusInternalServerError)
			return
		}
		userIDs := store.In{}
		for _, doc := range userDocs {
			if id, ok := doc["id"].(string); ok {
				userIDs = append(userIDs, id)
			}
		}
		filter["user_id"] = userIDs
	}

	docs, err := s.store.Collection(model.CollectionProfiles).Find(r.Context(), filter)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	profiles := []model.AthleteProfile{}
	for _, doc := range docs {
		var profile model.AthleteProfile
		if err := model.FromDocument(doc, &profile); err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}

	// The stat threshold can't be pushed into the store filter (it's a
	// range predicate on a nested map), so it's applied in-process.
	statKey := q.Get("min_stat_key")
	if statKey != "" {
		minValue, err := strconv.ParseFloat(q.Get("min_stat_value"), 64)
		if err != nil {
			s.errorJSON(w, errors.New("min_stat_value must be a number"), http.StatusBadRequest)
			return
		}
		matched := profiles[:0]
		for _, profile := range profiles {
			if value, ok := profile.Stats[statKey]; ok && value >= minValue {
				matched = append(matched, profile)
			}
		}
		profiles = matched
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	s.writeJSON(w, http.StatusOK, paginate(profiles, page, pageSize))
}

// handleImportPerformance accepts a GPX file upload and appends the
// derived distance/duration entries to the caller's recent-performance
// series. The caller must already have a profile.
func (s *Server) handleImportPerformance(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	// 10 MB is generous for a GPX file.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		s.errorJSON(w, errors.New("could not parse multipart form"), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("gpx")
	if err != nil {
		s.errorJSON(w, errors.New("a 'gpx' file field is required"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorJSON(w, errors.New("could not read uploaded file"), http.StatusBadRequest)
		return
	}

	entries, err := performance.ImportGPX(data)
	if err != nil {
		s.errorJSON(w, errors.New("invalid GPX file"), http.StatusBadRequest)
		return
	}

	profiles := s.store.Collection(model.CollectionProfiles)
	doc, err := profiles.FindOne(r.Context(), store.Filter{"user_id": user.ID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			s.errorJSON(w, errors.New("create a profile before importing performance data"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	var profile model.AthleteProfile
	if err := model.FromDocument(doc, &profile); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	updated := append(profile.RecentPerformance, entries...)
	err = profiles.UpdateOne(r.Context(), store.Filter{"user_id": user.ID}, store.Document{
		"recent_performance": updated,
		"updated_at":         time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.errorJSON(w, errors.New("could not save performance entries"), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"imported": entries, "recent_performance": updated})
}
