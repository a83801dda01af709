package draft

import (
	"fmt"
	"sort"

	"github.com/openpitch/draftd/internal/models"
	"github.com/openpitch/draftd/internal/players"
	"github.com/openpitch/draftd/internal/scoring"
)

// Selector chooses a player for a team whose pick timer expired. Selection is
// deterministic: rank by projected fantasy value descending, tie-break by
// player ID ascending.
type Selector struct {
	// rosterNeed restricts the choice to positions the team still needs a
	// starter for, when any such candidate exists.
	rosterNeed bool
}

func NewSelector(rosterNeed bool) *Selector {
	return &Selector{rosterNeed: rosterNeed}
}

// Select returns the auto-pick for the team. candidates must already exclude
// drafted players; inactive players are skipped here. counts holds how many
// players the team has drafted per field position.
func (s *Selector) Select(league *models.League, candidates []players.AvailablePlayer, counts map[models.Position]int) (*models.Player, error) {
	ranked := make([]players.AvailablePlayer, 0, len(candidates))
	for _, c := range candidates {
		if !c.Player.IsActive {
			continue
		}
		ranked = append(ranked, c)
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: no available players", ErrNotFound)
	}

	weights := league.ScoringSettings
	sort.Slice(ranked, func(i, j int) bool {
		pi := scoring.FantasyPoints(ranked[i].Stats, ranked[i].Player.Position, weights)
		pj := scoring.FantasyPoints(ranked[j].Stats, ranked[j].Player.Position, weights)
		if pi != pj {
			return pi > pj
		}
		return ranked[i].Player.ID.String() < ranked[j].Player.ID.String()
	})

	if s.rosterNeed {
		if pick := s.firstNeeded(league.RosterSettings, ranked, counts); pick != nil {
			return pick, nil
		}
	}

	top := ranked[0].Player
	return &top, nil
}

// firstNeeded returns the best-ranked candidate playing a position the team
// still lacks a starter for, or nil when the team has no open need among the
// candidates.
func (s *Selector) firstNeeded(rs models.RosterSettings, ranked []players.AvailablePlayer, counts map[models.Position]int) *models.Player {
	needed := make(map[models.Position]bool)
	for _, pos := range []models.Position{models.PositionGK, models.PositionDEF, models.PositionMID, models.PositionFWD} {
		if counts[pos] < rs.StartersFor(pos) {
			needed[pos] = true
		}
	}
	if len(needed) == 0 {
		return nil
	}

	for _, c := range ranked {
		if needed[c.Player.Position] {
			player := c.Player
			return &player
		}
	}
	return nil
}
