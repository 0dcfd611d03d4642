package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agit/internal/fusion"
	"github.com/danielpatrickdp/agit/internal/logging"
)

// #region feedback

var feedbackCmd = &cobra.Command{
	Use:   "feedback <syntax> <logic> <semantic>",
	Short: "Nudge the expert attention weights",
	Long: `Feedback adds learning_rate times each value to the matching expert weight
and renormalizes. The result is validated before it is persisted as a new
weight version; a failed validation leaves the weights unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFeedback,
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	feedback := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("feedback[%d]: %w", i, err)
		}
		feedback[i] = v
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.scoring.UpdateWeights(feedback)
	out := cmd.OutOrStdout()
	d := res.Update.Decision
	fmt.Fprintf(out, "%s %s\n", actionColor(d.Action)(d.Action), gray(d.Reason))
	printWeights(out, res.Update.Weights)
	for _, m := range res.Eval.Metrics {
		status := green("pass")
		if !m.Pass {
			status = red("fail")
			if !m.Blocking {
				status = yellow("warn")
			}
		}
		fmt.Fprintf(out, "  eval %-12s %.6f %s\n", m.Name, m.Value, status)
	}
	if res.VersionID != "" {
		fmt.Fprintf(out, "  version %s\n", res.VersionID)
	}
	return err
}

// #endregion feedback

// #region weights

var weightsLast int

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "List or roll back expert weight versions",
}

var weightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weight versions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireStore(); err != nil {
			return err
		}

		versions, err := s.store.ListVersionsWithProvenance(weightsLast)
		if err != nil {
			return err
		}
		active := s.scoring.VersionID()
		out := cmd.OutOrStdout()
		for _, v := range versions {
			mark := " "
			if v.VersionID == active {
				mark = green("*")
			}
			decision := v.Decision
			if decision == "" {
				decision = "initial"
			}
			fmt.Fprintf(out, "%s %s  %s  %-8s  %s\n", mark, shortID(v.VersionID),
				v.CreatedAt.Format("2006-01-02 15:04:05"), actionColor(decision)(decision), formatWeights(v.Weights))
		}
		return nil
	},
}

var weightsRollbackCmd = &cobra.Command{
	Use:   "rollback <version-id>",
	Short: "Make a previous weight version active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.requireStore(); err != nil {
			return err
		}

		target := args[0]
		from := s.scoring.VersionID()
		if err := s.store.Rollback(target); err != nil {
			return err
		}
		if err := s.store.LogDecision(logging.ProvenanceEntry{
			VersionID:   target,
			TriggerType: logging.TriggerRollback,
			Decision:    "commit",
			Reason:      fmt.Sprintf("manual rollback from %s", from),
		}); err != nil {
			s.logger.Warn("provenance write failed", zap.Error(err))
		}

		rec, err := s.store.GetVersion(target)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s -> %s\n", green("rolled back"), shortID(from), shortID(target))
		printWeights(out, rec.Weights)
		return nil
	},
}

func init() {
	weightsListCmd.Flags().IntVarP(&weightsLast, "last", "n", 20, "number of versions to show")
	weightsCmd.AddCommand(weightsListCmd, weightsRollbackCmd)
	rootCmd.AddCommand(weightsCmd)
}

// #endregion weights

// #region helpers

func formatWeights(w []float64) string {
	names := expertNames()
	out := ""
	for i, v := range w {
		if i > 0 {
			out += " "
		}
		name := strconv.Itoa(i)
		if i < len(names) {
			name = names[i]
		}
		out += fmt.Sprintf("%s=%.4f", name, v)
	}
	return out
}

func printWeights(w io.Writer, weights []float64) {
	fmt.Fprintf(w, "  weights %s\n", formatWeights(weights))
}

func expertNames() []string {
	experts := fusion.New().Experts()
	names := make([]string, len(experts))
	for i, ex := range experts {
		names[i] = ex.Name()
	}
	return names
}

// #endregion helpers
