package model

import (
	"encoding/json"
	"time"

	"github.com/sportexhq/sportex/internal/store"
)

// Role classifies what a user account is allowed to do.
type Role string

const (
	RoleAthlete   Role = "athlete"
	RoleCoach     Role = "coach"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
	RoleGuest     Role = "guest"
)

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAthlete, RoleCoach, RoleOrganizer, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// Privacy is the per-user visibility tier controlling how much of their
// athlete profile strangers can see.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyLimited Privacy = "limited"
	PrivacyPrivate Privacy = "private"
)

// RegistrationStatus is the lifecycle state of an event registration.
// Transitions are decided by the registration engine, never by the caller.
type RegistrationStatus string

const (
	StatusPending    RegistrationStatus = "pending"
	StatusConfirmed  RegistrationStatus = "confirmed"
	StatusWaitlisted RegistrationStatus = "waitlisted"
	StatusCancelled  RegistrationStatus = "cancelled"
)

// NotificationType classifies a notification for the recipient's inbox.
type NotificationType string

const (
	NotificationInvite      NotificationType = "invite"
	NotificationEventUpdate NotificationType = "event_update"
	NotificationSystem      NotificationType = "system"
)

// Collection names. Each model type maps to one named collection in the
// document store.
const (
	CollectionUsers          = "user"
	CollectionProfiles       = "athleteprofile"
	CollectionTeams          = "team"
	CollectionEvents         = "event"
	CollectionRegistrations  = "registration"
	CollectionNotifications  = "notification"
	CollectionModerationLogs = "moderation"
)

// User is an identity record. Users are never hard-deleted; moderation
// flips is_active instead.
type User struct {
	ID           string  `json:"id,omitempty"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password_hash,omitempty"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	AvatarURL    string  `json:"avatar_url,omitempty"`
	Location     string  `json:"location,omitempty"`
	IsActive     bool    `json:"is_active"`
	Privacy      Privacy `json:"privacy,omitempty"`
}

// MediaItem is a typed attachment on an athlete profile.
type MediaItem struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Thumb string `json:"thumb,omitempty"`
}

// PerformanceEntry is one point in the recent-performance time series.
// Date is an ISO calendar date (YYYY-MM-DD).
type PerformanceEntry struct {
	Date   string  `json:"date"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// AthleteProfile is the one-to-one extension of a User with sporting data.
//
// Stats is a free-form metric map. The documented key vocabulary is
// "ppg" (points per game), "apg" (assists per game), "distance_km" and
// "duration_min"; any other key is carried through untouched, so the map
// doubles as the forward-compatibility escape hatch.
type AthleteProfile struct {
	ID                string             `json:"id,omitempty"`
	UserID            string             `json:"user_id"`
	Sport             string             `json:"sport"`
	Position          string             `json:"position,omitempty"`
	Bio               string             `json:"bio,omitempty"`
	HeightCM          *int               `json:"height_cm,omitempty"`
	WeightKG          *int               `json:"weight_kg,omitempty"`
	Stats             map[string]float64 `json:"stats"`
	Achievements      []string           `json:"achievements"`
	Media             []MediaItem        `json:"media"`
	RecentPerformance []PerformanceEntry `json:"recent_performance"`
	UpdatedAt         time.Time          `json:"updated_at,omitzero"`
}

// Team is a coach-owned roster of users. Roster membership is unique and
// insertion order is preserved for display.
type Team struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	CoachUserID   string   `json:"coach_user_id"`
	Sport         string   `json:"sport"`
	Location      string   `json:"location,omitempty"`
	RosterUserIDs []string `json:"roster_user_ids"`
}

// Event is an organizer-owned happening with a bounded capacity.
// starts_at < ends_at is expected but deliberately not validated.
type Event struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title"`
	Sport           string    `json:"sport"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Capacity        int       `json:"capacity"`
	OrganizerUserID string    `json:"organizer_user_id"`
}

// Registration links a user to an event. At most one exists per
// (event_id, user_id) pair.
type Registration struct {
	ID      string             `json:"id,omitempty"`
	EventID string             `json:"event_id"`
	UserID  string             `json:"user_id"`
	Status  RegistrationStatus `json:"status"`
}

// Notification is a message addressed to a single user.
type Notification struct {
	ID     string           `json:"id,omitempty"`
	UserID string           `json:"user_id"`
	Type   NotificationType `json:"type"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	Read   bool             `json:"read"`
}

// Moderation is an append-only audit record of an admin action.
type Moderation struct {
	ID         string `json:"id,omitempty"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
}

// ToDocument converts a typed model into a store document by round-tripping
// through JSON. The store is schemaless, so any field the type doesn't know
// about simply isn't written; fields already in the store that a partial
// update doesn't mention are left alone.
func ToDocument(v any) (store.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument decodes a store document into a typed model. Unknown fields
// in the document are ignored.
func FromDocument(doc store.Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
