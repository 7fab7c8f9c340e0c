package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Projection ProjectionConfig `yaml:"projection" mapstructure:"projection"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates the pipeline's boundary artifacts on disk.
type PathsConfig struct {
	Rosters    string `yaml:"rosters" mapstructure:"rosters"`
	Season     string `yaml:"season" mapstructure:"season"`
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	WeighInDir string `yaml:"weigh_in_dir" mapstructure:"weigh_in_dir"`
	Workbook   string `yaml:"workbook" mapstructure:"workbook"`
	RunLog     string `yaml:"run_log" mapstructure:"run_log"`
}

// ProjectionConfig tunes the weight projector.
type ProjectionConfig struct {
	Decay  float64 `yaml:"decay" mapstructure:"decay"`
	MADK   float64 `yaml:"mad_k" mapstructure:"mad_k"`
	Buffer float64 `yaml:"buffer" mapstructure:"buffer"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SEEDLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.rosters", "_parsed-data/rosters.json")
	v.SetDefault("paths.season", "")
	v.SetDefault("paths.data_dir", "_parsed-data")
	v.SetDefault("paths.weigh_in_dir", "_parsed-data/weigh-ins")
	v.SetDefault("paths.workbook", "seeding.xlsx")
	v.SetDefault("paths.run_log", "seedline.db")
	v.SetDefault("projection.decay", 0.85)
	v.SetDefault("projection.mad_k", 2.5)
	v.SetDefault("projection.buffer", 0.5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
