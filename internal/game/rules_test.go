// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

func TestNormalizeDefaults(t *testing.T) {
	setup, err := Normalize(CreateRequest{}, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, DefaultGameName, setup.Name)
	assert.Equal(t, "Yellow Team", setup.Teams[0].Name)
	assert.Equal(t, "Blue Team", setup.Teams[1].Name)
	assert.Equal(t, []string{"Player 1"}, setup.Teams[0].Players)

	cfg := setup.Config
	assert.Equal(t, DefaultRoundTimeSeconds, cfg.RoundTimeSeconds)
	assert.Equal(t, DefaultWordsPerSide, cfg.WordsPerSide)
	assert.Equal(t, []string{words.DefaultThemeID}, cfg.Themes)
	assert.Equal(t, []int{1, 2}, cfg.Levels)
	assert.Equal(t, DefaultChallengeFrequency, cfg.ChallengeFrequency)
	assert.InDelta(t, DefaultBonusChance, cfg.BonusChance, 1e-9)
	assert.InDelta(t, DefaultCursedChance, cfg.CursedChance, 1e-9)
	assert.Equal(t, DefaultMaxCursedPerGame, cfg.MaxCursedPerGame)
	assert.Equal(t, DefaultScoring(), cfg.Scoring)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	req := CreateRequest{
		Name:               "  Friday  ",
		Team1:              TeamSetup{Name: "Owls", Players: []string{" Ann ", "", "Bob"}},
		RoundTimeSeconds:   45,
		WordsPerSide:       3,
		Levels:             []int{2, 2, 1},
		ChallengeFrequency: intPtr(0),
		BonusChance:        floatPtr(0),
		CursedChance:       floatPtr(1),
	}
	setup, err := Normalize(req, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Friday", setup.Name)
	assert.Equal(t, "Owls", setup.Teams[0].Name)
	assert.Equal(t, "#f1c40f", setup.Teams[0].Color)
	assert.Equal(t, []string{"Ann", "Bob"}, setup.Teams[0].Players)
	assert.Equal(t, 45, setup.Config.RoundTimeSeconds)
	assert.Equal(t, 3, setup.Config.WordsPerSide)
	assert.Equal(t, []int{2, 1}, setup.Config.Levels)
	assert.Equal(t, 0, setup.Config.ChallengeFrequency)
	assert.Zero(t, setup.Config.BonusChance)
	assert.Equal(t, 1.0, setup.Config.CursedChance)
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"round too short", CreateRequest{RoundTimeSeconds: 4}},
		{"negative round time", CreateRequest{RoundTimeSeconds: -30}},
		{"round too long", CreateRequest{RoundTimeSeconds: MaxRoundTimeSeconds + 1}},
		{"round time overflowing a duration", CreateRequest{RoundTimeSeconds: 10_000_000_000}},
		{"negative words per side", CreateRequest{WordsPerSide: -1}},
		{"negative challenge frequency", CreateRequest{ChallengeFrequency: intPtr(-1)}},
		{"bonus above one", CreateRequest{BonusChance: floatPtr(1.5)}},
		{"cursed below zero", CreateRequest{CursedChance: floatPtr(-0.1)}},
		{"negative cursed cap", CreateRequest{MaxCursedPerGame: intPtr(-1)}},
		{"unknown theme", CreateRequest{Themes: []string{"nope"}}},
		{"unknown level", CreateRequest{Levels: []int{9}}},
		{"bad multiplier", CreateRequest{Scoring: &ScoringRules{BonusMultiplier: 0}}},
		{"negative penalty", CreateRequest{Scoring: &ScoringRules{BonusMultiplier: 2, CursedPenalty: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.req, testCatalog())
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestNormalizeRoundTimeBounds(t *testing.T) {
	for _, secs := range []int{MinRoundTimeSeconds, MaxRoundTimeSeconds} {
		setup, err := Normalize(CreateRequest{RoundTimeSeconds: secs}, testCatalog())
		require.NoError(t, err)
		assert.Equal(t, secs, setup.Config.RoundTimeSeconds)
	}
}

func TestNormalizePoolTooSmall(t *testing.T) {
	_, err := Normalize(CreateRequest{WordsPerSide: 21}, testCatalog())
	assert.ErrorIs(t, err, words.ErrPoolExhausted)
	assert.Equal(t, CodePoolExhausted, ErrorCode(err))

	// one level holds 20 words: exactly enough for ten per side
	_, err = Normalize(CreateRequest{WordsPerSide: 10, Levels: []int{1}}, testCatalog())
	assert.NoError(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Board ")
	require.NoError(t, err)
	assert.Equal(t, RoleBoard, r)

	_, err = ParseRole("referee")
	assert.Equal(t, CodeValidation, ErrorCode(err))
}
