package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agit/internal/config"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/state"
)

var (
	cfgFile  string
	repoPath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "agit",
	Short: "agit - fitness-gated auto-commit agent",
	Long: `agit watches a git working tree, scores the pending change set and
commits it only when the change looks complete and coherent. Low-fitness
changes wait, mid-fitness changes are saved locally, and oversized or
scattered changes are flagged for splitting.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: agit.yaml in . or .agit/)")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", "", "repository path (overrides repo.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// #region session

// session bundles the state most subcommands need.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *state.Store
	scoring *engine.Context
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if repoPath != "" {
		cfg.Repo.Path = repoPath
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

// openSession loads config, builds the logger, opens the store when a DB
// path is configured and restores the scoring context from it.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	s := &session{cfg: cfg, logger: logger}

	if dbPath := cfg.ResolvePath(cfg.Storage.DBPath); dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		s.store, err = state.NewStore(dbPath)
		if err != nil {
			return nil, err
		}
	}

	s.scoring, err = engine.Open(cfg.Engine(), s.store, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	logger.Debug("session opened",
		zap.String("repo", cfg.Repo.Path),
		zap.String("mode", cfg.Scoring.Mode),
		zap.String("version_id", s.scoring.VersionID()),
		zap.Int("history", len(s.scoring.History())),
	)
	return s, nil
}

// requireStore fails commands that only make sense with a database.
func (s *session) requireStore() error {
	if s.store == nil {
		return fmt.Errorf("storage.db_path is empty; this command needs the database")
	}
	return nil
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	_ = s.logger.Sync()
}

// #endregion session
