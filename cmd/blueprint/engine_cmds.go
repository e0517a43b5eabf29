package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

// profileFlags mirrors TraderProfile; only flags the user set override the stored profile.
type profileFlags struct {
	profile models.TraderProfile
	style   string
	save    bool
}

func (p *profileFlags) register(fs *pflag.FlagSet) {
	d := models.DefaultTraderProfile()
	fs.Float64Var(&p.profile.AccountSize, "account-size", d.AccountSize, "Account size")
	fs.Float64Var(&p.profile.ProfitTarget, "profit-target", d.ProfitTarget, "Profit target in percent")
	fs.IntVar(&p.profile.PassDays, "pass-days", d.PassDays, "Days allowed to pass")
	fs.Float64Var(&p.profile.WinRate, "win-rate", d.WinRate, "Win rate in percent")
	fs.Float64Var(&p.profile.RiskRewardRatio, "rr", d.RiskRewardRatio, "Risk:reward ratio")
	fs.Float64Var(&p.profile.RiskPerTrade, "risk", d.RiskPerTrade, "Risk per trade in percent")
	fs.IntVar(&p.profile.TradesPerDay, "trades-per-day", d.TradesPerDay, "Trades per day")
	fs.BoolVar(&p.profile.IsAccelerated, "accelerated", d.IsAccelerated, "Accelerated challenge")
	fs.StringVar(&p.style, "style", "", "Risk style: conservative, balanced, aggressive (default stored style)")
	fs.BoolVar(&p.save, "save", false, "Persist the resulting profile and style")
}

// apply overlays the flags the user changed onto stored. Choosing a style
// applies its risk preset unless --risk was also given.
func (p *profileFlags) apply(fs *pflag.FlagSet, stored models.TraderProfile, storedStyle models.RiskStyle) (models.TraderProfile, models.RiskStyle, error) {
	out, style := stored, storedStyle
	if p.style != "" {
		s, err := models.ParseRiskStyle(p.style)
		if err != nil {
			return out, style, err
		}
		style = s
		out = out.WithRiskStyle(style)
	}

	overrides := map[string]func(){
		"account-size":   func() { out.AccountSize = p.profile.AccountSize },
		"profit-target":  func() { out.ProfitTarget = p.profile.ProfitTarget },
		"pass-days":      func() { out.PassDays = p.profile.PassDays },
		"win-rate":       func() { out.WinRate = p.profile.WinRate },
		"rr":             func() { out.RiskRewardRatio = p.profile.RiskRewardRatio },
		"risk":           func() { out.RiskPerTrade = p.profile.RiskPerTrade },
		"trades-per-day": func() { out.TradesPerDay = p.profile.TradesPerDay },
		"accelerated":    func() { out.IsAccelerated = p.profile.IsAccelerated },
	}
	for name, set := range overrides {
		if fs.Changed(name) {
			set()
		}
	}
	return out, style, out.Validate()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	metricsFlags    profileFlags
	metricsJSON     bool
	metricsCurveCSV string
	metricsBand     string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute strategy metrics for the stored or given profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := setupDependencies(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer deps.Close()

		stored, err := deps.prefs.LoadProfile(ctx)
		if err != nil {
			return err
		}
		storedStyle, err := deps.prefs.LoadRiskStyle(ctx)
		if err != nil {
			return err
		}
		profile, style, err := metricsFlags.apply(cmd.Flags(), stored, storedStyle)
		if err != nil {
			return err
		}

		m, err := deps.simulations.Metrics(profile, style)
		if err != nil {
			return err
		}
		if metricsFlags.save {
			if err := deps.prefs.SaveProfile(ctx, profile); err != nil {
				return err
			}
			if err := deps.prefs.SaveRiskStyle(ctx, style); err != nil {
				return err
			}
		}
		if metricsCurveCSV != "" {
			if err := writeCurveCSV(m.EquityCurveData, metricsBand, metricsCurveCSV); err != nil {
				return err
			}
			appLog.WithFields(logrus.Fields{"path": metricsCurveCSV, "band": metricsBand}).Info("Equity curve exported")
		}
		if metricsJSON {
			return writeJSON(cmd.OutOrStdout(), m)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), challenge.FormatSummary(profile, style, m))
		return err
	},
}

// writeCurveCSV writes one equity band to path.
func writeCurveCSV(data models.EquityCurveData, band, path string) error {
	curve, err := challenge.Band(data, band)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(curve.ToCSV()), 0o644); err != nil {
		return fmt.Errorf("failed to write equity curve: %w", err)
	}
	return nil
}

var (
	simulateFlags  profileFlags
	simulateTrials int
	simulateSeed   int64
	simulateCSV    string
	simulateJSON   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte Carlo challenge simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := setupDependencies(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer deps.Close()

		stored, err := deps.prefs.LoadProfile(ctx)
		if err != nil {
			return err
		}
		storedStyle, err := deps.prefs.LoadRiskStyle(ctx)
		if err != nil {
			return err
		}
		profile, style, err := simulateFlags.apply(cmd.Flags(), stored, storedStyle)
		if err != nil {
			return err
		}

		trials := cfg.Engine.DefaultTrials
		if cmd.Flags().Changed("trials") {
			trials = simulateTrials
		}
		seed := cfg.Engine.Seed
		if cmd.Flags().Changed("seed") {
			seed = simulateSeed
		}

		res, err := deps.simulations.Simulate(ctx, models.SimulationRequest{
			Profile: profile,
			Style:   style,
			Trials:  trials,
			Seed:    seed,
		})
		if err != nil {
			return err
		}
		if simulateCSV != "" {
			if err := challenge.GenerateCSVExport(res, simulateCSV); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			appLog.WithField("path", simulateCSV).Info("Distributions exported")
		}
		if simulateJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), challenge.GenerateConsoleReport(res))
		return err
	},
}

var (
	goalInput models.GoalInput
	goalSave  bool
	goalJSON  bool
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Work out the risk per trade needed to hit a profit target",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := setupDependencies(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer deps.Close()

		input, err := deps.prefs.LoadGoalInput(ctx)
		if err != nil {
			return err
		}
		fs := cmd.Flags()
		if fs.Changed("account-size") {
			input.AccountSize = goalInput.AccountSize
		}
		if fs.Changed("profit-target") {
			input.ProfitTarget = goalInput.ProfitTarget
		}
		if fs.Changed("pass-days") {
			input.PassDays = goalInput.PassDays
		}
		if fs.Changed("win-rate") {
			input.WinRate = goalInput.WinRate
		}
		if fs.Changed("rr") {
			input.RiskRewardRatio = goalInput.RiskRewardRatio
		}
		if fs.Changed("trades-per-day") {
			input.TradesPerDay = goalInput.TradesPerDay
		}
		if fs.Changed("accelerated") {
			input.IsAccelerated = goalInput.IsAccelerated
		}

		plan, err := deps.simulations.Goal(input)
		if err != nil {
			return err
		}
		if goalSave {
			if err := deps.prefs.SaveGoalInput(ctx, input); err != nil {
				return err
			}
		}
		if goalJSON {
			return writeJSON(cmd.OutOrStdout(), plan)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total trades:            %d\n", plan.TotalTrades)
		fmt.Fprintf(out, "Edge per unit risk:      %.3f\n", plan.EdgePerUnitRisk)
		fmt.Fprintf(out, "Required risk per trade: %.2f%% (%s)\n", plan.RequiredRiskPerTrade, plan.RiskLevel)
		fmt.Fprintf(out, "Daily target:            $%.2f (%.2f%%)\n", plan.DailyTargetAmount, plan.DailyTargetPercent)
		fmt.Fprintf(out, "Pass probability:        %.0f%%\n", plan.PassProbability)
		return nil
	},
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent simulation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := setupDependencies(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer deps.Close()

		runs, err := deps.simulations.RecentRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), runs)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := setupDependencies(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.prefs.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset to defaults")
		return nil
	},
}

func init() {
	metricsFlags.register(metricsCmd.Flags())
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Print JSON instead of a summary")
	metricsCmd.Flags().StringVar(&metricsCurveCSV, "curve-csv", "", "Write one equity curve band to this CSV file")
	metricsCmd.Flags().StringVar(&metricsBand, "band", challenge.BandAverage, "Equity curve band: best, average or worst")

	simulateFlags.register(simulateCmd.Flags())
	simulateCmd.Flags().IntVar(&simulateTrials, "trials", 1000, "Trials: 100, 1000, 5000 or 10000")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "RNG seed; 0 seeds from the clock")
	simulateCmd.Flags().StringVar(&simulateCSV, "csv", "", "Write the distributions to this CSV file")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "Print JSON instead of a report")

	d := models.DefaultGoalInput()
	fs := goalCmd.Flags()
	fs.Float64Var(&goalInput.AccountSize, "account-size", d.AccountSize, "Account size")
	fs.Float64Var(&goalInput.ProfitTarget, "profit-target", d.ProfitTarget, "Profit target in percent")
	fs.IntVar(&goalInput.PassDays, "pass-days", d.PassDays, "Days allowed to pass")
	fs.Float64Var(&goalInput.WinRate, "win-rate", d.WinRate, "Win rate in percent")
	fs.Float64Var(&goalInput.RiskRewardRatio, "rr", d.RiskRewardRatio, "Risk:reward ratio")
	fs.IntVar(&goalInput.TradesPerDay, "trades-per-day", d.TradesPerDay, "Trades per day")
	fs.BoolVar(&goalInput.IsAccelerated, "accelerated", d.IsAccelerated, "Accelerated challenge")
	fs.BoolVar(&goalSave, "save", false, "Persist the goal inputs")
	fs.BoolVar(&goalJSON, "json", false, "Print JSON")

	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")
}
