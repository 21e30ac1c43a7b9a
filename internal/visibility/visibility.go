// Package visibility enforces the per-user privacy tiers when athlete
// profiles are returned to other users. Resolution is a pure function of
// the profile, the owner's tier and the requesting actor; it never touches
// the store.
package visibility

import (
	"errors"

	"github.com/sportexhq/sportex/internal/model"
)

// ErrPrivateProfile is returned when a private profile is requested by
// someone who is neither its owner nor an admin.
var ErrPrivateProfile = errors.New("profile is private")

// Actor identifies who is asking for the profile.
type Actor struct {
	UserID string
	Role   model.Role
}

// LimitedProfile is the redacted view returned for "limited" profiles.
// It carries exactly the sporting fields and nothing that identifies or
// measures the owner.
type LimitedProfile struct {
	Sport        string             `json:"sport"`
	Position     string             `json:"position,omitempty"`
	Stats        map[string]float64 `json:"stats"`
	Achievements []string           `json:"achievements"`
	Media        []model.MediaItem  `json:"media"`
}

// Resolve applies the owner's privacy tier to a stored profile and returns
// the view the actor is allowed to see: the full profile, a LimitedProfile,
// or ErrPrivateProfile. An empty tier counts as public.
func Resolve(profile *model.AthleteProfile, ownerPrivacy model.Privacy, actor Actor) (any, error) {
	// Owners and admins always see everything.
	if actor.UserID == profile.UserID || actor.Role == model.RoleAdmin {
		return profile, nil
	}

	switch ownerPrivacy {
	case model.PrivacyPrivate:
		return nil, ErrPrivateProfile
	case model.PrivacyLimited:
		return &LimitedProfile{
			Sport:        profile.Sport,
			Position:     profile.Position,
			Stats:        profile.Stats,
			Achievements: profile.Achievements,
			Media:        profile.Media,
		}, nil
	default:
		// "public", or unset on accounts created before privacy tiers.
		return profile, nil
	}
}
