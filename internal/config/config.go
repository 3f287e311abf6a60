package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"github.com/omarshaarawi/rosterbot/internal/stats"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	League      League
	Optimizer   Optimizer
	Schedule    Schedule
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type ESPNAPI struct {
	Year     string `envconfig:"YEAR" required:"true"`
	LeagueID string `envconfig:"LEAGUE_ID" required:"true"`
	TeamID   int    `envconfig:"TEAM_ID" required:"true"`
	SWID     string `envconfig:"SWID" required:"true"`
	ESPNS2   string `envconfig:"ESPN_S2" required:"true"`
	BaseURL  string `envconfig:"ESPN_BASE_URL" default:"https://lm-api-reads.fantasy.espn.com/apis/v3/games/flb"`
}

// League describes the roster and scoring rules. Positions is a multiset:
// a label listed five times has five slots.
type League struct {
	Positions         []string      `envconfig:"POSITIONS" default:"C,1B,2B,SS,3B,LF,CF,RF,Util,SP,SP,SP,SP,SP,RP,RP,RP,RP,RP"`
	Categories        []string      `envconfig:"CATEGORIES" default:"R,HR,RBI,SB,AVG,OBP,W,SO,SV,HLD,ERA,WHIP"`
	BenchSpots        int           `envconfig:"BENCH_SPOTS" default:"3"`
	IRSpots           int           `envconfig:"IR_SPOTS" default:"2"`
	MinPercentOwned   float64       `envconfig:"MIN_PERCENT_OWNED" default:"10"`
	UseWeeklySchedule bool          `envconfig:"USE_WEEKLY_SCHEDULE" default:"true"`
	PoolExpiry        time.Duration `envconfig:"POOL_EXPIRY" default:"6h"`
	// Games a player is expected to play in one scoring week.
	HitterGames       float64 `envconfig:"HITTER_GAMES" default:"6"`
	ReliefAppearances float64 `envconfig:"RELIEF_APPEARANCES" default:"3"`
	StarterStarts     float64 `envconfig:"STARTER_STARTS" default:"1"`
}

type Optimizer struct {
	PopulationSize int     `envconfig:"OPT_POPULATION_SIZE" default:"100"`
	Generations    int     `envconfig:"OPT_GENERATIONS" default:"100"`
	TournamentSize int     `envconfig:"OPT_TOURNAMENT_SIZE" default:"16"`
	MutationPct    float64 `envconfig:"OPT_MUTATION_PCT" default:"0.05"`
	Offspring      int     `envconfig:"OPT_OFFSPRING" default:"4"`
	StdevClamp     float64 `envconfig:"OPT_STDEV_CLAMP" default:"2.0"`
	// Seed fixes the random source when non-zero.
	Seed int64 `envconfig:"OPT_SEED" default:"0"`
}

type Schedule struct {
	OptimizeCron string `envconfig:"OPTIMIZE_CRON" default:"0 8 * * 1"`
	ScoreCron    string `envconfig:"SCORE_CRON" default:"0 9 * * *"`
	Location     string `envconfig:"TZ" default:"America/Chicago"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if len(c.League.Positions) == 0 {
		return fmt.Errorf("POSITIONS must list at least one position")
	}
	for i, p := range c.League.Positions {
		c.League.Positions[i] = strings.TrimSpace(p)
	}
	if _, err := c.League.ParsedCategories(); err != nil {
		return fmt.Errorf("invalid CATEGORIES: %w", err)
	}
	for name, spec := range map[string]string{
		"OPTIMIZE_CRON": c.Schedule.OptimizeCron,
		"SCORE_CRON":    c.Schedule.ScoreCron,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Location); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", c.Schedule.Location, err)
	}
	return nil
}

func (l League) ParsedCategories() ([]stats.Category, error) {
	return stats.ParseCategories(l.Categories)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
