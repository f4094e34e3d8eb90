package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level delaywatch configuration.
type Config struct {
	Dataset   Dataset   `mapstructure:"dataset"`
	Sweep     Sweep     `mapstructure:"sweep"`
	Analysis  Analysis  `mapstructure:"analysis"`
	Recommend Recommend `mapstructure:"recommend"`
	Output    Output    `mapstructure:"output"`
	Log       Log       `mapstructure:"log"`
}

// Dataset describes where the rental delay dataset comes from.
type Dataset struct {
	// URL is fetched and cached when Path is empty.
	URL string `mapstructure:"url"`

	// Path points at a local CSV or XLSX file and takes precedence over URL.
	Path string `mapstructure:"path"`

	CacheDir       string `mapstructure:"cache_dir"`
	TimeoutSeconds int    `mapstructure:"timeout"`
}

// Source returns the local path if set, otherwise the remote URL.
func (d Dataset) Source() string {
	if d.Path != "" {
		return d.Path
	}
	return d.URL
}

// Timeout returns the download timeout.
func (d Dataset) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Sweep defines the threshold range evaluated by sweep, recommend and track.
type Sweep struct {
	Start   int `mapstructure:"start"`
	Stop    int `mapstructure:"stop"`
	Step    int `mapstructure:"step"`
	Workers int `mapstructure:"workers"`
}

// Analysis holds defaults for single-threshold commands.
type Analysis struct {
	Scope  string `mapstructure:"scope"`
	Metric string `mapstructure:"metric"`
}

// Recommend defines how candidate thresholds are scored.
type Recommend struct {
	FrictionWeight  float64 `mapstructure:"friction_weight"`
	AffectedWeight  float64 `mapstructure:"affected_weight"`
	OwnerLossWeight float64 `mapstructure:"owner_loss_weight"`

	// MaxOwnerLoss is the mean owner loss percent above which a threshold
	// is flagged as too costly.
	MaxOwnerLoss float64 `mapstructure:"max_owner_loss"`

	// MinFrictionDrop is the friction reduction percent a threshold must
	// reach to be called out as effective.
	MinFrictionDrop float64 `mapstructure:"min_friction_drop"`

	MaxSuggestions int `mapstructure:"max_suggestions"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Log defines logging preferences.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with DELAYWATCH_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("dataset.url", DefaultDataset.URL)
	v.SetDefault("dataset.path", DefaultDataset.Path)
	v.SetDefault("dataset.cache_dir", DefaultDataset.CacheDir)
	v.SetDefault("dataset.timeout", DefaultDataset.TimeoutSeconds)
	v.SetDefault("sweep.start", DefaultSweep.Start)
	v.SetDefault("sweep.stop", DefaultSweep.Stop)
	v.SetDefault("sweep.step", DefaultSweep.Step)
	v.SetDefault("sweep.workers", DefaultSweep.Workers)
	v.SetDefault("analysis.scope", DefaultAnalysis.Scope)
	v.SetDefault("analysis.metric", DefaultAnalysis.Metric)
	v.SetDefault("recommend.friction_weight", DefaultRecommend.FrictionWeight)
	v.SetDefault("recommend.affected_weight", DefaultRecommend.AffectedWeight)
	v.SetDefault("recommend.owner_loss_weight", DefaultRecommend.OwnerLossWeight)
	v.SetDefault("recommend.max_owner_loss", DefaultRecommend.MaxOwnerLoss)
	v.SetDefault("recommend.min_friction_drop", DefaultRecommend.MinFrictionDrop)
	v.SetDefault("recommend.max_suggestions", DefaultRecommend.MaxSuggestions)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Expand paths.
	cfg.Dataset.CacheDir = expandPath(cfg.Dataset.CacheDir)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path)

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
