package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/tycoonlabs/therapy-tycoon/internal/gametime"
	"github.com/tycoonlabs/therapy-tycoon/internal/rules"
)

// Config holds process configuration parsed from environment variables.
// Gameplay balance lives in internal/rules; only the scalars an operator
// would reasonably override per deployment are exposed here.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RNGSeed makes every probabilistic draw in the engine deterministic.
	// Zero means seed from the wall clock.
	RNGSeed int64 `env:"RNG_SEED" envDefault:"0"`

	BusinessHoursStart int `env:"BUSINESS_HOURS_START" envDefault:"8"`
	BusinessHoursEnd   int `env:"BUSINESS_HOURS_END" envDefault:"17"`
	LunchHour          int `env:"LUNCH_HOUR" envDefault:"-1"`
	MaxSessionsPerDay  int `env:"MAX_SESSIONS_PER_DAY" envDefault:"6"`
	RetentionDays      int `env:"SAVE_RETENTION_DAYS" envDefault:"14"`

	// Save-slot storage. Empty RedisAddr keeps saves in process memory.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	SaveSlotKey   string `env:"SAVE_SLOT_KEY" envDefault:"therapy-tycoon:save"`

	// Starting conditions for a fresh practice.
	StartingBalance    int  `env:"STARTING_BALANCE" envDefault:"2000"`
	Rooms              int  `env:"ROOMS" envDefault:"2"`
	TelehealthUnlocked bool `env:"TELEHEALTH_UNLOCKED" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// CommandRateLimit throttles state-changing API calls per IP, in
	// requests per second. Zero disables limiting.
	CommandRateLimit float64 `env:"COMMAND_RATE_LIMIT" envDefault:"0"`
	CommandBurst     int     `env:"COMMAND_BURST" envDefault:"10"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if cfg.BusinessHoursStart < 0 || cfg.BusinessHoursEnd > 24 || cfg.BusinessHoursStart >= cfg.BusinessHoursEnd {
		return nil, fmt.Errorf("config: invalid business hours %d-%d", cfg.BusinessHoursStart, cfg.BusinessHoursEnd)
	}
	return cfg, nil
}

// Rules returns the gameplay tunables with this process's overrides applied.
func (c *Config) Rules() rules.Rules {
	r := rules.Default()
	r.BusinessHours = gametime.WorkHours{
		Start:     c.BusinessHoursStart,
		End:       c.BusinessHoursEnd,
		LunchHour: c.LunchHour,
	}
	if c.MaxSessionsPerDay > 0 {
		r.MaxSessionsPerTherapistPerDay = c.MaxSessionsPerDay
	}
	if c.RetentionDays > 0 {
		r.RetentionDays = c.RetentionDays
	}
	return r
}
