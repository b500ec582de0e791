package merge

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	SelectClosest = "closest"
	SelectLongest = "longest"
)

// Config holds the thresholds of one merge run. Keys match the config file
// and the command line flag names.
type Config struct {
	// hits shorter than this on the original contig are ignored
	MinNucmerLength int `mapstructure:"min-nucmer-length" yaml:"min-nucmer-length"`
	// minimum percent identity of a usable hit
	MinNucmerIdentity float64 `mapstructure:"min-nucmer-identity" yaml:"min-nucmer-identity"`
	// a hit within this many bases of an original contig end anchors that end
	RefEndTolerance int `mapstructure:"ref-end-tolerance" yaml:"ref-end-tolerance"`
	// same for the reassembly contig ends
	QryEndTolerance int `mapstructure:"qry-end-tolerance" yaml:"qry-end-tolerance"`
	// percent of a circular reassembly node a hit must cover
	MinSpadesCircularPercent float64 `mapstructure:"min-spades-circular-percent" yaml:"min-spades-circular-percent"`
	// closest | longest, how one join is chosen among several candidates
	PairSelection string `mapstructure:"pair-selection" yaml:"pair-selection"`
}

func DefaultConfig() Config {
	return Config{
		MinNucmerLength:          4000,
		MinNucmerIdentity:        99,
		RefEndTolerance:          15000,
		QryEndTolerance:          1000,
		MinSpadesCircularPercent: 95,
		PairSelection:            SelectClosest,
	}
}

// LoadConfig reads the settings file fn (yaml, toml or json by suffix) over
// the defaults. An empty fn returns the defaults.
func LoadConfig(fn string) (Config, error) {
	cfg := DefaultConfig()
	if fn == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(fn)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("[LoadConfig] read config file: %s failed: %w", fn, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("[LoadConfig] decode config file: %s failed: %w", fn, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.MinNucmerLength < 0:
		return fmt.Errorf("min-nucmer-length must be >= 0, got %d", c.MinNucmerLength)
	case c.RefEndTolerance < 0:
		return fmt.Errorf("ref-end-tolerance must be >= 0, got %d", c.RefEndTolerance)
	case c.QryEndTolerance < 0:
		return fmt.Errorf("qry-end-tolerance must be >= 0, got %d", c.QryEndTolerance)
	case c.MinNucmerIdentity < 0 || c.MinNucmerIdentity > 100:
		return fmt.Errorf("min-nucmer-identity must be in [0,100], got %v", c.MinNucmerIdentity)
	case c.MinSpadesCircularPercent < 0 || c.MinSpadesCircularPercent > 100:
		return fmt.Errorf("min-spades-circular-percent must be in [0,100], got %v", c.MinSpadesCircularPercent)
	case c.PairSelection != SelectClosest && c.PairSelection != SelectLongest:
		return fmt.Errorf("unknown pair-selection %q, want %s or %s", c.PairSelection, SelectClosest, SelectLongest)
	}
	return nil
}
