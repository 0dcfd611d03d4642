package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agit/internal/agent"
	"github.com/danielpatrickdp/agit/internal/config"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/rpc"
)

// #region run

var (
	runRemote string
	runOnce   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the repository and commit changes that pass the gate",
	Long: `Run perceives the working tree every repo.interval_seconds, scores the
pending change set and acts on the verdict. With --remote the scoring happens
in an agit serve process instead of in-process.`,
	RunE: runAgent,
}

func init() {
	runCmd.Flags().StringVar(&runRemote, "remote", "", "score through a scoring service at this address")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "run a single cycle and exit")
	rootCmd.AddCommand(runCmd)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		cfg    *config.Config
		logger *zap.Logger
		scorer agent.Scorer
	)
	if runRemote != "" {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		if logger, err = logging.NewLogger(cfg.Logger); err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer logger.Sync()
		client, err := rpc.Dial(runRemote)
		if err != nil {
			return err
		}
		defer client.Close()
		scorer = client
	} else {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		cfg, logger, scorer = s.cfg, s.logger, agent.Local(s.scoring)
	}

	repo, err := agent.OpenRepository(cfg.Repo.Path,
		agent.Author{Name: cfg.Repo.AuthorName, Email: cfg.Repo.AuthorEmail}, cfg.Repo.Remote)
	if err != nil {
		return err
	}
	a := agent.New(repo, scorer, agent.Config{AutoPush: cfg.Repo.AutoPush}, logger)
	out := cmd.OutOrStdout()

	if runOnce {
		res, err := a.Step(ctx)
		printStep(out, res, err)
		return err
	}

	logger.Info("agent started",
		zap.String("repo", repo.Root()),
		zap.Duration("interval", cfg.Interval()),
		zap.Bool("auto_push", cfg.Repo.AutoPush),
		zap.String("remote_scorer", runRemote),
	)
	err = a.Run(ctx, cfg.Interval(), func(res agent.StepResult, err error) {
		printStep(out, res, err)
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("agent stopped")
		return nil
	}
	return err
}

// #endregion run

// #region check

var (
	checkStdin bool
	checkFile  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Score the pending change set once and print a report",
	Long: `Check scores the working tree (or change-set text from --file or --stdin)
without committing anything and without writing to the decision log.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStdin, "stdin", false, "read change-set text from stdin")
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read change-set text from a file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := checkInput(cmd, s)
	if err != nil {
		return err
	}

	// A detached copy keeps check out of the provenance log.
	ec := s.cfg.Engine()
	ec.StateFile = ""
	dry := engine.New(ec, nil, s.logger)
	if err := dry.Restore(s.scoring.VersionID(), s.scoring.Weights(), s.scoring.History()); err != nil {
		return err
	}

	printOutcome(cmd.OutOrStdout(), dry.Evaluate(text), ec.Mode)
	return nil
}

func checkInput(cmd *cobra.Command, s *session) (string, error) {
	switch {
	case checkStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case checkFile != "":
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", checkFile, err)
		}
		return string(data), nil
	}

	repo, err := agent.OpenRepository(s.cfg.Repo.Path,
		agent.Author{Name: s.cfg.Repo.AuthorName, Email: s.cfg.Repo.AuthorEmail}, s.cfg.Repo.Remote)
	if err != nil {
		return "", err
	}
	return repo.Perceive(cmd.Context())
}

// #endregion check
