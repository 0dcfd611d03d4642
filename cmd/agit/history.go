package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/agit/internal/scl"
	"github.com/danielpatrickdp/agit/internal/topology"
)

// #region history

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded commit decisions, oldest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		entries := s.scoring.History()
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, gray("history is empty"))
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %.4f  %3d files  %s\n",
				gray(e.Timestamp.Local().Format("2006-01-02 15:04")), e.Fitness, e.FileCount, e.Message)
		}
		fmt.Fprintf(out, "\n%d entries\n", len(entries))
		return nil
	},
}

// #endregion history

// #region decode

var decodeLocale string

var decodeCmd = &cobra.Command{
	Use:   "decode <canonical>",
	Short: "Decode a semantic commit string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := scl.Parse(args[0], "")
		if !ok {
			return fmt.Errorf("no semantic tokens in %q", args[0])
		}

		out := cmd.OutOrStdout()
		names := make([]string, len(c.Tokens))
		for i, t := range c.Tokens {
			names[i] = fmt.Sprintf("%s(%s)", t, t.Class())
		}
		fmt.Fprintf(out, "%s %s\n", yellow("tokens:"), strings.Join(names, " "))
		fmt.Fprintf(out, "%s %s\n", yellow("message:"), scl.NewRenderer().Render(c, scl.ParseLocale(decodeLocale)))
		if c.Topology != nil {
			t := *c.Topology
			fmt.Fprintf(out, "%s %s κ=%d σ=%d δ=%d  %s\n", yellow("topology:"),
				t.String(), t.Kappa, t.Sigma, t.Delta, gray(t.Interpret()))
		}
		return nil
	},
}

// #endregion decode

// #region table

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print every topology symbol",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), topology.Table())
	},
}

// #endregion table

func init() {
	decodeCmd.Flags().StringVarP(&decodeLocale, "locale", "l", string(scl.English), "rendering locale")
	rootCmd.AddCommand(historyCmd, decodeCmd, tableCmd)
}
