package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/roster"
	"github.com/omarshaarawi/rosterbot/internal/stats"
)

func (s *LineupService) formatLineup(title string, players []models.Placement, bench, injured []models.Candidate) string {
	order := s.builder.Positions()
	slices.SortStableFunc(players, func(a, b models.Placement) int {
		return slices.Index(order, a.Position) - slices.Index(order, b.Position)
	})

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for _, p := range players {
		sb.WriteString(fmt.Sprintf("`%-4s` %s (%s)\n", p.Position, p.Name, p.Team))
	}
	if len(bench) > 0 {
		sb.WriteString("\n*Bench*\n")
		for _, c := range bench {
			sb.WriteString(fmt.Sprintf("`BE  ` %s (%s)\n", c.Name, c.Team))
		}
	}
	if len(injured) > 0 {
		sb.WriteString("\n*Injured*\n")
		for _, c := range injured {
			sb.WriteString(fmt.Sprintf("`IL  ` %s (%s) %s\n", c.Name, c.Team, c.Status))
		}
	}
	return sb.String()
}

func (s *LineupService) formatOptimizeReport(state *leagueState, lineup *roster.Container, bench, injured []models.Candidate, improved bool, before float64) string {
	var sb strings.Builder
	title := fmt.Sprintf("⚾ *Week %d Lineup vs %s*", state.metadata.CurrentWeek, state.opponent.Name)
	sb.WriteString(s.formatLineup(title, lineup.Players(), bench, injured))

	keep := slices.Concat(lineup.Candidates(), bench, injured)
	var adds, drops []string
	for _, c := range keep {
		if !slices.ContainsFunc(state.mine.Players, func(p models.Placement) bool { return p.ID == c.ID }) {
			adds = append(adds, c.Name)
		}
	}
	for _, p := range state.mine.Players {
		if !slices.ContainsFunc(keep, func(c models.Candidate) bool { return c.ID == p.ID }) {
			drops = append(drops, p.Name)
		}
	}
	if len(adds) > 0 {
		sb.WriteString(fmt.Sprintf("\n➕ Add: %s\n", strings.Join(adds, ", ")))
	}
	if len(drops) > 0 {
		sb.WriteString(fmt.Sprintf("➖ Drop: %s\n", strings.Join(drops, ", ")))
	}

	if improved {
		sb.WriteString(fmt.Sprintf("\nScore improved from %.2f to %.2f\n", before, state.comparer.BestScore()))
	} else {
		sb.WriteString(fmt.Sprintf("\nNo better lineup found (score %.2f)\n", before))
	}

	wins, losses, _ := state.comparer.CompareScores(lineup.StatSummary(), state.oppSummary)
	ties := len(s.scorer.Categories()) - wins - losses
	sb.WriteString(fmt.Sprintf("Projected: %d-%d-%d\n", wins, losses, ties))
	return sb.String()
}

func (s *LineupService) formatScore(state *leagueState, wins, losses int, results map[stats.Category]stats.CategoryResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Week %d vs %s*\n\n", state.metadata.CurrentWeek, state.opponent.Name))
	for _, cat := range s.scorer.Categories() {
		r := results[cat]
		sb.WriteString(fmt.Sprintf("`%-4s` %s - %s  %s\n",
			cat, formatStat(cat, r.Left), formatStat(cat, r.Right), r.Outcome))
	}
	ties := len(s.scorer.Categories()) - wins - losses
	sb.WriteString(fmt.Sprintf("\n*%d-%d-%d*", wins, losses, ties))
	return sb.String()
}

func formatStat(cat stats.Category, v float64) string {
	if cat.IsCounting() {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

func formatWhatIf(cand models.Candidate, benched []models.Candidate, current, best float64) string {
	names := make([]string, len(benched))
	for i, c := range benched {
		names[i] = c.Name
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔮 *What if %s?*\n\n", cand.Name))
	if len(names) == 0 {
		sb.WriteString("Best move: add to an open spot\n")
	} else {
		sb.WriteString(fmt.Sprintf("Best move: bench %s\n", strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Score: %.2f → %.2f", current, best))
	if best > current {
		sb.WriteString(" ✅")
	} else {
		sb.WriteString(" ❌")
	}
	return sb.String()
}

// maxListedPlayers caps the /players listing.
const maxListedPlayers = 15

func formatPlayers(pos string, selector *roster.Selector, lineup *roster.Container) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 *Players for %s*\n\n", pos))
	n := 0
	for c := range selector.Select() {
		if n == maxListedPlayers {
			break
		}
		n++
		mark := ""
		if lineup.Contains(c.ID) {
			mark = " ⭐"
		}
		sb.WriteString(fmt.Sprintf("%d. %s (%s) %.0f%%%s\n", n, c.Name, c.Team, c.PercentOwned, mark))
	}
	return sb.String()
}
