package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Pricing Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	scope := r.ProductID
	if scope == "" {
		scope = "all products"
	}
	sb.WriteString(fmt.Sprintf("Scope: %s | Window: %d days | Decisions: %d\n\n", scope, r.WindowDays, r.RecordCount))

	// Metrics
	sb.WriteString("## Metrics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Average Price | %.2f |\n", r.Metrics.AveragePrice))
	sb.WriteString(fmt.Sprintf("| Price Changes | %d |\n", r.Metrics.PriceChanges))
	sb.WriteString(fmt.Sprintf("| Conversion Rate | %.4f |\n", r.Metrics.ConversionRate))
	sb.WriteString(fmt.Sprintf("| Revenue Impact | %.2f |\n", r.Metrics.RevenueImpact))
	sb.WriteString(fmt.Sprintf("| Competitor Price Avg | %.2f |\n", r.Metrics.CompetitorPriceAvg))
	sb.WriteString("\n")

	// Strategy usage
	sb.WriteString("## Strategy Usage\n\n")
	if len(r.StrategyUsage) > 0 {
		sb.WriteString("| Strategy | Decisions | Avg Price | Min | Max |\n")
		sb.WriteString("|----------|-----------|-----------|-----|-----|\n")
		for _, row := range r.StrategyUsage {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f |\n",
				row.Strategy, row.Decisions, row.AveragePrice, row.MinPrice, row.MaxPrice))
		}
	} else {
		sb.WriteString("No pricing decisions in the window.\n")
	}
	sb.WriteString("\n")

	// Price trend
	sb.WriteString("## Price Trend\n\n")
	if len(r.PriceTrend) > 0 {
		sb.WriteString("| Date | Price | Sales |\n")
		sb.WriteString("|------|-------|-------|\n")
		for _, p := range r.PriceTrend {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %d |\n", p.Date, p.Price, p.Sales))
		}
	} else {
		sb.WriteString("No price trend data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
