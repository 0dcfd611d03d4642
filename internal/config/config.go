package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/eval"
	"github.com/danielpatrickdp/agit/internal/gate"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/scl"
	"github.com/danielpatrickdp/agit/internal/update"
)

// EnvPrefix prefixes every environment override, e.g. AGIT_SCORING_MODE.
const EnvPrefix = "AGIT"

// DefaultFileName is searched for in the working directory and in .agit/.
const DefaultFileName = "agit.yaml"

// #region sections

// Config is the root configuration.
type Config struct {
	Repo    RepoConfig     `mapstructure:"repo" yaml:"repo"`
	Scoring ScoringConfig  `mapstructure:"scoring" yaml:"scoring"`
	SCL     SCLConfig      `mapstructure:"scl" yaml:"scl"`
	Storage StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Server  ServerConfig   `mapstructure:"server" yaml:"server"`
	Logger  logging.Config `mapstructure:"logger" yaml:"logger"`
}

// RepoConfig describes the watched repository.
type RepoConfig struct {
	Path            string `mapstructure:"path" yaml:"path"`
	IntervalSeconds int    `mapstructure:"interval_seconds" yaml:"interval_seconds"`
	AutoPush        bool   `mapstructure:"auto_push" yaml:"auto_push"`
	Remote          string `mapstructure:"remote" yaml:"remote"`
	AuthorName      string `mapstructure:"author_name" yaml:"author_name"`
	AuthorEmail     string `mapstructure:"author_email" yaml:"author_email"`
}

// ScoringConfig holds the gate thresholds and learning parameters.
type ScoringConfig struct {
	Mode                string  `mapstructure:"mode" yaml:"mode"`
	CommitThreshold     float64 `mapstructure:"commit_threshold" yaml:"commit_threshold"`
	GhostThreshold      float64 `mapstructure:"ghost_threshold" yaml:"ghost_threshold"`
	SplitBytes          int     `mapstructure:"split_bytes" yaml:"split_bytes"`
	VetoOnAnalyzerSplit bool    `mapstructure:"veto_on_analyzer_split" yaml:"veto_on_analyzer_split"`
	LearningRate        float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	SumTolerance        float64 `mapstructure:"sum_tolerance" yaml:"sum_tolerance"`
}

// SCLConfig toggles semantic commit messages.
type SCLConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Locale  string `mapstructure:"locale" yaml:"locale"`
}

// StorageConfig locates persisted state. Relative paths resolve against the
// repository path.
type StorageConfig struct {
	DBPath    string `mapstructure:"db_path" yaml:"db_path"`
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
}

// ServerConfig configures the scoring service.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// #endregion sections

// #region defaults

// Default returns the built-in configuration.
func Default() Config {
	g := gate.DefaultConfig()
	return Config{
		Repo: RepoConfig{
			Path:            ".",
			IntervalSeconds: 30,
			Remote:          "origin",
			AuthorName:      "agit",
			AuthorEmail:     "agit@localhost",
		},
		Scoring: ScoringConfig{
			Mode:                string(engine.ModeAnalyzer),
			CommitThreshold:     g.CommitThreshold,
			GhostThreshold:      g.GhostThreshold,
			SplitBytes:          g.SplitBytes,
			VetoOnAnalyzerSplit: g.VetoOnAnalyzerSplit,
			LearningRate:        update.DefaultConfig().LearningRate,
			SumTolerance:        eval.DefaultConfig().SumTolerance,
		},
		SCL: SCLConfig{
			Locale: string(scl.English),
		},
		Storage: StorageConfig{
			DBPath:    ".git/agit.db",
			StateFile: ".git/fitness_state.json",
		},
		Server: ServerConfig{
			Address: "127.0.0.1:50551",
		},
		Logger: logging.DefaultConfig(),
	}
}

// SetDefaults registers every key with viper so env overrides and
// Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("repo.path", d.Repo.Path)
	v.SetDefault("repo.interval_seconds", d.Repo.IntervalSeconds)
	v.SetDefault("repo.auto_push", d.Repo.AutoPush)
	v.SetDefault("repo.remote", d.Repo.Remote)
	v.SetDefault("repo.author_name", d.Repo.AuthorName)
	v.SetDefault("repo.author_email", d.Repo.AuthorEmail)

	v.SetDefault("scoring.mode", d.Scoring.Mode)
	v.SetDefault("scoring.commit_threshold", d.Scoring.CommitThreshold)
	v.SetDefault("scoring.ghost_threshold", d.Scoring.GhostThreshold)
	v.SetDefault("scoring.split_bytes", d.Scoring.SplitBytes)
	v.SetDefault("scoring.veto_on_analyzer_split", d.Scoring.VetoOnAnalyzerSplit)
	v.SetDefault("scoring.learning_rate", d.Scoring.LearningRate)
	v.SetDefault("scoring.sum_tolerance", d.Scoring.SumTolerance)

	v.SetDefault("scl.enabled", d.SCL.Enabled)
	v.SetDefault("scl.locale", d.SCL.Locale)

	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("storage.state_file", d.Storage.StateFile)

	v.SetDefault("server.address", d.Server.Address)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.file", d.Logger.File)
	v.SetDefault("logger.max_size_mb", d.Logger.MaxSizeMB)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age_days", d.Logger.MaxAgeDays)
	v.SetDefault("logger.compress", d.Logger.Compress)
	v.SetDefault("logger.name", d.Logger.Name)
}

// #endregion defaults

// #region load

// NewViper returns a viper instance with defaults and AGIT_ env overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path. An empty path searches for agit.yaml
// in the working directory and .agit/, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(".agit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a configured viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// #endregion load

// #region validate

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, ok := engine.ParseMode(c.Scoring.Mode); !ok {
		return fmt.Errorf("scoring.mode must be %q or %q, got %q", engine.ModeAnalyzer, engine.ModeFusion, c.Scoring.Mode)
	}
	if c.Scoring.CommitThreshold < 0 || c.Scoring.CommitThreshold > 1 {
		return fmt.Errorf("scoring.commit_threshold must be within [0, 1]")
	}
	if c.Scoring.GhostThreshold < 0 || c.Scoring.GhostThreshold > c.Scoring.CommitThreshold {
		return fmt.Errorf("scoring.ghost_threshold must be within [0, commit_threshold]")
	}
	if c.Scoring.SplitBytes <= 0 {
		return fmt.Errorf("scoring.split_bytes must be a positive integer")
	}
	if c.Scoring.LearningRate <= 0 {
		return fmt.Errorf("scoring.learning_rate must be positive")
	}
	if c.Scoring.SumTolerance < 0 {
		return fmt.Errorf("scoring.sum_tolerance must not be negative")
	}
	if c.Repo.IntervalSeconds <= 0 {
		return fmt.Errorf("repo.interval_seconds must be a positive integer")
	}
	return nil
}

// #endregion validate

// #region derived

// Interval is the polling period of the agent loop.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Repo.IntervalSeconds) * time.Second
}

// ResolvePath anchors a storage path at the repository. Empty stays empty.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Repo.Path, p)
}

// Engine builds the scoring context configuration.
func (c *Config) Engine() engine.Config {
	mode, _ := engine.ParseMode(c.Scoring.Mode)
	ec := engine.DefaultConfig()
	ec.Mode = mode
	ec.Gate = gate.Config{
		CommitThreshold:     c.Scoring.CommitThreshold,
		GhostThreshold:      c.Scoring.GhostThreshold,
		SplitBytes:          c.Scoring.SplitBytes,
		VetoOnAnalyzerSplit: c.Scoring.VetoOnAnalyzerSplit,
	}
	ec.Update = update.Config{LearningRate: c.Scoring.LearningRate}
	ec.Eval.SumTolerance = c.Scoring.SumTolerance
	ec.SCL = c.SCL.Enabled
	ec.Locale = scl.ParseLocale(c.SCL.Locale)
	ec.Author = c.Repo.AuthorName
	ec.StateFile = c.ResolvePath(c.Storage.StateFile)
	return ec
}

// #endregion derived

// #region write

// WriteDefault writes the default configuration as YAML. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// #endregion write
