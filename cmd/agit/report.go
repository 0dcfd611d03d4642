package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/danielpatrickdp/agit/internal/agent"
	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/fusion"
	"github.com/danielpatrickdp/agit/internal/gate"
)

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

var factorOrder = []string{
	analyzer.FactorFiles,
	analyzer.FactorComplexity,
	analyzer.FactorCoherence,
	analyzer.FactorTests,
	analyzer.FactorRisk,
	analyzer.FactorDocumentation,
}

// actionColor picks the color for a gate or update action.
func actionColor(action string) func(a ...any) string {
	switch action {
	case gate.ActionCommit:
		return green
	case gate.ActionGhost:
		return blue
	case gate.ActionSplit, "reject":
		return red
	case gate.ActionWait, "no_op":
		return yellow
	default:
		return gray
	}
}

func actionIcon(action string) string {
	switch action {
	case gate.ActionCommit:
		return "✓"
	case gate.ActionGhost:
		return "◌"
	case gate.ActionSplit:
		return "✂"
	default:
		return "…"
	}
}

// #region outcome-report

// printOutcome renders a full scoring report for one change set.
func printOutcome(w io.Writer, o engine.Outcome, mode engine.Mode) {
	fmt.Fprintf(w, "\n%s\n\n", cyan("=== Change Set Fitness ==="))

	if len(o.Records) == 0 {
		fmt.Fprintf(w, "  %s\n\n", gray("No changes"))
	} else {
		fmt.Fprintf(w, "%s\n", yellow("Files:"))
		for _, r := range o.Records {
			fmt.Fprintf(w, "  %-9s %s %s\n", r.Kind, r.Path,
				gray(fmt.Sprintf("+%d -%d", len(r.Added), len(r.Removed))))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s %s\n", yellow("Analyzer:"), gray(fmt.Sprintf("(%s)", o.Report.Decision)))
	for _, name := range factorOrder {
		fmt.Fprintf(w, "  %-14s %5.3f  %s\n", name, o.Report.Factors[name],
			gray(fmt.Sprintf("x%.2f = %.4f", analyzer.Weight(name), o.Report.Components[name])))
	}
	fmt.Fprintf(w, "  %-14s %5.3f\n", "final", o.Report.FinalScore)
	for _, r := range o.Report.Reasons {
		fmt.Fprintf(w, "  %s %s\n", gray("·"), r)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s\n", yellow("Fusion:"), gray(o.Fusion.Reason))
	for _, ex := range fusion.New().Experts() {
		fmt.Fprintf(w, "  %-14s %5.3f\n", ex.Name(), o.Fusion.Breakdown[ex.Name()])
	}
	fmt.Fprintf(w, "  %-14s %5.3f\n", "energy", o.Fusion.Energy)
	fmt.Fprintf(w, "  %-14s %5.3f\n", "score", o.Fusion.Score)
	if o.Bonus != 0 {
		fmt.Fprintf(w, "  %-14s %+.4f\n", "history bonus", o.Bonus)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s  %s\n", yellow("Topology:"), o.Topology.String(), gray(o.Topology.Interpret()))
	fmt.Fprintf(w, "  κ=%d σ=%d δ=%d\n", o.Topology.Kappa, o.Topology.Sigma, o.Topology.Delta)
	if o.Commit.Canonical != "" {
		fmt.Fprintf(w, "  canonical %s\n", o.Commit.Canonical)
	}
	fmt.Fprintln(w)

	paint := actionColor(o.Gate.Action)
	fmt.Fprintf(w, "%s %s %s  %s\n", yellow("Gate:"),
		paint(actionIcon(o.Gate.Action)), paint(strings.ToUpper(o.Gate.Action)),
		gray(fmt.Sprintf("%s score %.4f", mode, o.Score)))
	fmt.Fprintf(w, "  %s\n", o.Gate.Reason)
	for _, v := range o.Gate.VetoSignals {
		fmt.Fprintf(w, "  %s %s\n", red("veto"), v.Reason)
	}
	if o.Message != "" {
		fmt.Fprintf(w, "  message: %s\n", o.Message)
	}

	if len(o.Report.Suggestions) > 0 {
		fmt.Fprintf(w, "\n%s\n", yellow("Suggestions:"))
		for _, s := range o.Report.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	fmt.Fprintln(w)
}

// #endregion outcome-report

// #region step-line

// printStep writes one line per agent cycle.
func printStep(w io.Writer, res agent.StepResult, err error) {
	ts := gray(time.Now().Format("15:04:05"))
	if err != nil {
		fmt.Fprintf(w, "%s %s %v\n", ts, red("error"), err)
		return
	}
	if res.Idle {
		fmt.Fprintf(w, "%s %s\n", ts, gray("idle"))
		return
	}

	v := res.Verdict
	paint := actionColor(v.Action)
	line := fmt.Sprintf("%s %s %-6s %.3f %s %d files", ts,
		paint(actionIcon(v.Action)), paint(v.Action), v.Score, v.Topology, v.FileCount)
	if res.CommitHash != "" {
		line += fmt.Sprintf("  %s %s", shortID(res.CommitHash), v.Message)
	} else {
		line += "  " + gray(v.Reason)
	}
	if res.Pushed {
		line += " " + green("pushed")
	}
	if res.PushErr != nil {
		line += " " + red("push failed: "+res.PushErr.Error())
	}
	if res.RecordErr != nil {
		line += " " + red("history: "+res.RecordErr.Error())
	}
	fmt.Fprintln(w, line)
}

// #endregion step-line

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
