package services

import (
	"fmt"
	"strings"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// RenderCommentary formats a chain analysis as plain-text market
// commentary suitable for Telegram delivery and storage alongside the
// verdict.
func RenderCommentary(analysis *models.ChainAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Market Analysis for %s at %.0f\n", analysis.Symbol, analysis.SpotPrice)
	fmt.Fprintf(&b, "Put-Call Ratio: %s - %s\n", formatRatio(analysis.PCR.Ratio), analysis.PCR.Signal)
	fmt.Fprintf(&b, "Max Pain: %.0f (%s)\n", analysis.MaxPain.Strike, analysis.MaxPain.Signal)

	if len(analysis.OILevels.ResistanceLevels) > 0 {
		fmt.Fprintf(&b, "Key Resistance: %s\n", formatLevels(analysis.OILevels.ResistanceLevels))
	}
	if len(analysis.OILevels.SupportLevels) > 0 {
		fmt.Fprintf(&b, "Key Support: %s\n", formatLevels(analysis.OILevels.SupportLevels))
	}

	fmt.Fprintf(&b, "Institutional Positioning: %s\n", analysis.OILevels.Positioning)
	fmt.Fprintf(&b, "Institutional Flow: %s (bullish %.0f%%, bearish %.0f%%)\n",
		analysis.Flow.DominantStrategy, analysis.Flow.BullishPct, analysis.Flow.BearishPct)
	fmt.Fprintf(&b, "Trend: %s (score %.0f, strength %.2f)\n",
		analysis.Trend.Label, analysis.Trend.Score, analysis.Trend.Strength)

	fmt.Fprintf(&b, "Overall Sentiment: %s\n", humanize(string(analysis.OverallSentiment)))
	fmt.Fprintf(&b, "Recommended Strategy: %s", humanize(string(analysis.Strategy)))

	return b.String()
}

func formatRatio(ratio float64) string {
	// An infinite ratio means the chain carries no call OI at all.
	if ratio > 1e12 {
		return "inf"
	}
	return fmt.Sprintf("%.2f", ratio)
}

func formatLevels(levels []float64) string {
	parts := make([]string, len(levels))
	for i, level := range levels {
		parts[i] = fmt.Sprintf("%.0f", level)
	}
	return strings.Join(parts, ", ")
}

// humanize turns an enum value like "strongly_bullish" into "Strongly
// Bullish".
func humanize(value string) string {
	words := strings.Split(value, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
