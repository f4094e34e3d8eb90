// Package config provides configuration loading and defaults for delaywatch.
package config

// DefaultDatasetURL is the published rental delay analysis spreadsheet.
const DefaultDatasetURL = "https://full-stack-assets.s3.eu-west-3.amazonaws.com/Deployment/get_around_delay_analysis.xlsx"

// DefaultConfigDir is the default location for delaywatch configuration.
const DefaultConfigDir = "~/.config/delaywatch"

// DefaultCacheDir is where downloaded datasets are kept.
const DefaultCacheDir = "~/.cache/delaywatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "delaywatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultEnvPrefix prefixes environment overrides, e.g. DELAYWATCH_DATASET_URL.
const DefaultEnvPrefix = "DELAYWATCH"

// DefaultDataset holds the default dataset source settings.
var DefaultDataset = Dataset{
	URL:            DefaultDatasetURL,
	CacheDir:       DefaultCacheDir,
	TimeoutSeconds: 60,
}

// DefaultSweep mirrors the dashboard's 0 to 360 minute range in 30 minute steps.
var DefaultSweep = Sweep{
	Start:   0,
	Stop:    360,
	Step:    30,
	Workers: 0,
}

// DefaultAnalysis holds the default scope and owner loss metric.
var DefaultAnalysis = Analysis{
	Scope:  "all",
	Metric: "mean",
}

// DefaultRecommend holds the default weights for ranking thresholds.
var DefaultRecommend = Recommend{
	FrictionWeight:  1.0,
	AffectedWeight:  0.5,
	OwnerLossWeight: 0.5,
	MaxOwnerLoss:    10.0,
	MinFrictionDrop: 50.0,
	MaxSuggestions:  5,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLog holds the default logging preferences.
var DefaultLog = Log{
	Level:  "warn",
	Format: "console",
}
