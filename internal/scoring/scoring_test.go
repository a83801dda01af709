package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openpitch/draftd/internal/models"
)

func TestFantasyPoints(t *testing.T) {
	weights := models.ScoringSettings{
		PassesCompleted: 1,
		KeyPasses:       2,
		Assists:         6,
		Goals:           10,
		CleanSheetsGK:   6,
		CleanSheetsDEF:  4,
		CleanSheetsMID:  4,
		Saves:           1,
		MinutesPlayed:   0.1,
		YellowCards:     -1,
		RedCards:        -3,
	}

	tests := []struct {
		name     string
		stats    models.PlayerStats
		position models.Position
		expected float64
	}{
		{
			name: "midfielder season line",
			stats: models.PlayerStats{
				PassesCompleted: 10,
				KeyPasses:       2,
				Assists:         1,
				Goals:           1,
				MinutesPlayed:   90,
				YellowCards:     1,
			},
			position: models.PositionMID,
			expected: 38.0, // 10 + 4 + 6 + 10 + 9 - 1
		},
		{
			name: "goalkeeper clean sheets use the GK weight",
			stats: models.PlayerStats{
				CleanSheets: 3,
				Saves:       12,
			},
			position: models.PositionGK,
			expected: 30.0, // 3*6 + 12
		},
		{
			name: "defender clean sheets use the DEF weight",
			stats: models.PlayerStats{
				CleanSheets: 3,
			},
			position: models.PositionDEF,
			expected: 12.0,
		},
		{
			name: "forwards earn nothing for clean sheets",
			stats: models.PlayerStats{
				CleanSheets: 5,
				Goals:       2,
			},
			position: models.PositionFWD,
			expected: 20.0,
		},
		{
			name: "red card penalty",
			stats: models.PlayerStats{
				PassesCompleted: 4,
				RedCards:        1,
			},
			position: models.PositionMID,
			expected: 1.0,
		},
		{
			name:     "zero stat line",
			stats:    models.PlayerStats{},
			position: models.PositionMID,
			expected: 0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FantasyPoints(tc.stats, tc.position, weights)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFantasyPointsRoundsToOneDecimal(t *testing.T) {
	weights := models.ScoringSettings{MinutesPlayed: 0.1}
	stats := models.PlayerStats{MinutesPlayed: 123}

	assert.Equal(t, 12.3, FantasyPoints(stats, models.PositionMID, weights))
}

func TestAveragePointsPerGame(t *testing.T) {
	weights := models.DefaultScoringSettings()

	stats := models.PlayerStats{
		MatchesPlayed: 4,
		Goals:         4, // 40 points total
	}
	assert.Equal(t, 10.0, AveragePointsPerGame(stats, models.PositionFWD, weights))

	// Zero matches played does not divide by zero.
	noMatches := models.PlayerStats{Goals: 1}
	assert.Equal(t, 10.0, AveragePointsPerGame(noMatches, models.PositionFWD, weights))
}
