package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/skolverk/betyg/internal/grading"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// BandConfig is one grade band as written in the config file. Min is on the
// normalized [0,1] scale and is the inclusive lower bound of the band.
type BandConfig struct {
	Label  string   `toml:"label"`
	Min    float64  `toml:"min"`
	Points *float64 `toml:"points"`
	Remark string   `toml:"remark"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Grading struct {
		// a pointer so an explicit 0.0 is distinguishable from unset
		PassThreshold    *float64     `toml:"pass_threshold"`
		PercentageBands  []BandConfig `toml:"percentage_bands"`
		LetterScaleBands []BandConfig `toml:"letter_scale_bands"`
		GPABands         []BandConfig `toml:"gpa_bands"`
	} `toml:"grading"`

	Report struct {
		TemplateDir          string `toml:"template_dir"`
		PageSize             string `toml:"page_size"`
		DPI                  uint   `toml:"dpi"`
		MaxConcurrentRenders int    `toml:"max_concurrent_renders"`
		RetryTransient       bool   `toml:"retry_transient"`
	} `toml:"report"`

	Cache struct {
		Enabled    bool   `toml:"enabled"`
		RedisURL   string `toml:"redis_url"`
		TTLSeconds int    `toml:"ttl_seconds"`
	} `toml:"cache"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	config.applyDefaults()

	logger.Debug.Printf("Loaded grading config: %+v", config.Grading)

	return &config, nil
}

// PassThreshold returns the configured pass cutoff, after defaults applied.
func (c *Config) PassThreshold() float64 {
	return *c.Grading.PassThreshold
}

func (c *Config) applyDefaults() {
	if c.Grading.PassThreshold == nil {
		threshold := grading.DefaultPassThreshold
		c.Grading.PassThreshold = &threshold
	}
	if c.Report.TemplateDir == "" {
		c.Report.TemplateDir = "./templates"
	}
	if c.Report.MaxConcurrentRenders == 0 {
		c.Report.MaxConcurrentRenders = 2
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "betyg.db"
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "./migrations"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
}

// Bands converts a configured band table, falling back to defaults when the
// config leaves it out.
func Bands(configured []BandConfig, defaults []grading.Band) []grading.Band {
	if len(configured) == 0 {
		return defaults
	}
	bands := make([]grading.Band, len(configured))
	for i, b := range configured {
		bands[i] = grading.Band{
			Label:  b.Label,
			Min:    b.Min,
			Points: b.Points,
			Remark: b.Remark,
		}
	}
	return bands
}
