package challenge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatSummary renders the plain-text summary copied to the clipboard.
func FormatSummary(profile models.TraderProfile, style models.RiskStyle, m models.StrategyMetrics) string {
	var builder strings.Builder
	builder.WriteString("Challenge Blueprint\n")
	builder.WriteString("===================\n")
	builder.WriteString(fmt.Sprintf("Account Size: $%s\n", money(profile.AccountSize)))
	builder.WriteString(fmt.Sprintf("Profit Target: %.2f%% ($%s)\n", profile.ProfitTarget, money(profile.ProfitTarget/100*profile.AccountSize)))
	builder.WriteString(fmt.Sprintf("Days: %d\n", profile.PassDays))
	builder.WriteString(fmt.Sprintf("Risk Style: %s (%.2f%% per trade)\n", style, profile.RiskPerTrade))
	builder.WriteString(fmt.Sprintf("Win Rate: %.1f%% | Reward:Risk 1:%.2f\n", profile.WinRate, profile.RiskRewardRatio))
	if profile.IsAccelerated {
		builder.WriteString("Mode: accelerated\n")
	}
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Expected Value / Trade: %.3f%%\n", m.ExpectedValuePerTrade))
	builder.WriteString(fmt.Sprintf("Trades Needed: %.1f\n", m.TradesNeeded))
	builder.WriteString(fmt.Sprintf("Daily Target: $%s (%.3f%%)\n", money(m.DailyTargetAmount), m.DailyTargetPercent))
	builder.WriteString(fmt.Sprintf("Drawdown Risk: %.2f%%\n", m.DrawdownRisk))
	builder.WriteString(fmt.Sprintf("Pass Probability: %.1f%%\n", m.PassProbability))
	if worst := EquityCurve(m.EquityCurveData.Worst); len(worst) > 0 {
		builder.WriteString(fmt.Sprintf("Worst-Band Drawdown: %.2f%%\n", worst.MaxDrawdown()))
	}
	return builder.String()
}

// GenerateConsoleReport formats a simulation result for terminal output
func GenerateConsoleReport(result models.SimulationResult) string {
	var builder strings.Builder
	builder.WriteString("Monte Carlo Report\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Trials: %d (seed %d)\n", result.Trials, result.Seed))
	builder.WriteString(fmt.Sprintf("Success Rate: %.2f%% (%d passed)\n", result.SuccessRate, result.Successes))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Average Drawdown: %.2f%%\n", result.AverageDrawdown))
	builder.WriteString(fmt.Sprintf("Average Days To Target: %.1f\n", result.AverageDaysToTarget))
	writeDistribution(&builder, "Drawdown Distribution", result.DrawdownDistribution)
	writeDistribution(&builder, "Days To Target Distribution", result.DaysToTargetDistribution)
	return builder.String()
}

func writeDistribution(builder *strings.Builder, title string, buckets []models.DistributionBucket) {
	builder.WriteString("\n" + title + "\n")
	for _, b := range buckets {
		bar := strings.Repeat("#", int(b.Percentage/2))
		builder.WriteString(fmt.Sprintf("  %-6s %6d %6.2f%% %s\n", b.Label, b.Count, b.Percentage, bar))
	}
}

// GenerateCSVExport writes both distributions for spreadsheets
func GenerateCSVExport(result models.SimulationResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("distribution,label,count,percentage\n")
	for _, b := range result.DrawdownDistribution {
		builder.WriteString(fmt.Sprintf("drawdown,%s,%d,%.4f\n", b.Label, b.Count, b.Percentage))
	}
	for _, b := range result.DaysToTargetDistribution {
		builder.WriteString(fmt.Sprintf("days_to_target,%s,%d,%.4f\n", b.Label, b.Count, b.Percentage))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}
