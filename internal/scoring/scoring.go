// Package scoring computes fantasy points from season statistics. All
// functions are pure; the same scoring is used to rank the available-player
// board and to choose auto-picks.
package scoring

import (
	"math"

	"github.com/openpitch/draftd/internal/models"
)

// FantasyPoints returns the weighted fantasy value of a stat line, rounded to
// one decimal place. Clean sheets are weighted by the player's position;
// forwards earn nothing for them.
func FantasyPoints(stats models.PlayerStats, position models.Position, weights models.ScoringSettings) float64 {
	total := float64(stats.PassesCompleted) * weights.PassesCompleted
	total += float64(stats.KeyPasses) * weights.KeyPasses
	total += float64(stats.Assists) * weights.Assists
	total += float64(stats.Goals) * weights.Goals
	total += float64(stats.CleanSheets) * cleanSheetWeight(position, weights)
	total += float64(stats.Saves) * weights.Saves
	total += float64(stats.MinutesPlayed) * weights.MinutesPlayed
	total += float64(stats.YellowCards) * weights.YellowCards
	total += float64(stats.RedCards) * weights.RedCards

	return round1(total)
}

// AveragePointsPerGame returns fantasy points per match played. A player with
// no recorded matches is treated as having played one.
func AveragePointsPerGame(stats models.PlayerStats, position models.Position, weights models.ScoringSettings) float64 {
	games := stats.MatchesPlayed
	if games < 1 {
		games = 1
	}
	return round1(FantasyPoints(stats, position, weights) / float64(games))
}

func cleanSheetWeight(position models.Position, weights models.ScoringSettings) float64 {
	switch position {
	case models.PositionGK:
		return weights.CleanSheetsGK
	case models.PositionDEF:
		return weights.CleanSheetsDEF
	case models.PositionMID:
		return weights.CleanSheetsMID
	default:
		return 0
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
