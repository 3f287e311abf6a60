package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omarshaarawi/rosterbot/internal/models"
)

var ErrInvalidCategory = errors.New("invalid stat category")

// Category is a scoring category of the league.
type Category int

const (
	Runs Category = iota
	HomeRuns
	RunsBattedIn
	StolenBases
	BattingAverage
	OnBasePct
	Wins
	Strikeouts
	Saves
	Holds
	ERA
	WHIP
)

var categoryNames = []string{
	Runs:           "R",
	HomeRuns:       "HR",
	RunsBattedIn:   "RBI",
	StolenBases:    "SB",
	BattingAverage: "AVG",
	OnBasePct:      "OBP",
	Wins:           "W",
	Strikeouts:     "SO",
	Saves:          "SV",
	Holds:          "HLD",
	ERA:            "ERA",
	WHIP:           "WHIP",
}

// AllCategories lists every category the scorer knows about.
func AllCategories() []Category {
	cats := make([]Category, len(categoryNames))
	for i := range categoryNames {
		cats[i] = Category(i)
	}
	return cats
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	// ESPN labels strikeouts as K
	if strings.EqualFold(name, "K") {
		return Strikeouts, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
}

func ParseCategories(names []string) ([]Category, error) {
	cats := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// IsCounting reports whether the category is summed directly across
// candidates rather than derived from summed components.
func (c Category) IsCounting() bool {
	switch c {
	case BattingAverage, OnBasePct, ERA, WHIP:
		return false
	}
	return true
}

func (c Category) IsHighestBetter() bool {
	return c != ERA && c != WHIP
}

func (c Category) PositionType() models.PositionType {
	switch c {
	case Wins, Strikeouts, Saves, Holds, ERA, WHIP:
		return models.Pitcher
	}
	return models.Hitter
}
