package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportexhq/sportex/internal/model"
)

func sampleProfile() *model.AthleteProfile {
	return &model.AthleteProfile{
		ID:       "profile-1",
		UserID:   "owner-1",
		Sport:    "basketball",
		Position: "G",
		Bio:      "team captain",
		Stats:    map[string]float64{"ppg": 14.5},
		Achievements: []string{
			"All-Conference",
		},
		Media: []model.MediaItem{{Type: "image", URL: "https://example.com/a.jpg"}},
	}
}

func TestResolvePublic(t *testing.T) {
	profile := sampleProfile()
	view, err := Resolve(profile, model.PrivacyPublic, Actor{UserID: "stranger", Role: model.RoleAthlete})
	require.NoError(t, err)
	assert.Same(t, profile, view)
}

func TestResolveUnsetTierIsPublic(t *testing.T) {
	profile := sampleProfile()
	view, err := Resolve(profile, "", Actor{UserID: "stranger", Role: model.RoleAthlete})
	require.NoError(t, err)
	assert.Same(t, profile, view)
}

func TestResolvePrivate(t *testing.T) {
	profile := sampleProfile()
	_, err := Resolve(profile, model.PrivacyPrivate, Actor{UserID: "stranger", Role: model.RoleAthlete})
	assert.ErrorIs(t, err, ErrPrivateProfile)
}

func TestResolveLimited(t *testing.T) {
	profile := sampleProfile()
	view, err := Resolve(profile, model.PrivacyLimited, Actor{UserID: "stranger", Role: model.RoleCoach})
	require.NoError(t, err)

	limited, ok := view.(*LimitedProfile)
	require.True(t, ok, "limited tier must return the redacted view")
	assert.Equal(t, "basketball", limited.Sport)
	assert.Equal(t, "G", limited.Position)
	assert.Equal(t, profile.Stats, limited.Stats)
	assert.Equal(t, profile.Achievements, limited.Achievements)
	assert.Equal(t, profile.Media, limited.Media)
}

func TestResolveOwnerSeesEverything(t *testing.T) {
	profile := sampleProfile()
	for _, tier := range []model.Privacy{model.PrivacyPublic, model.PrivacyLimited, model.PrivacyPrivate} {
		view, err := Resolve(profile, tier, Actor{UserID: "owner-1", Role: model.RoleAthlete})
		require.NoError(t, err, "tier=%s", tier)
		assert.Same(t, profile, view, "tier=%s", tier)
	}
}

func TestResolveAdminSeesEverything(t *testing.T) {
	profile := sampleProfile()
	for _, tier := range []model.Privacy{model.PrivacyPublic, model.PrivacyLimited, model.PrivacyPrivate} {
		view, err := Resolve(profile, tier, Actor{UserID: "someone-else", Role: model.RoleAdmin})
		require.NoError(t, err, "tier=%s", tier)
		assert.Same(t, profile, view, "tier=%s", tier)
	}
}
