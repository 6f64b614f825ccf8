package reporting

import (
	"fmt"
	"strings"

	"dynamic-pricing/internal/domain"
)

// RenderCSV renders the price trend series as CSV string.
func RenderCSV(trend []domain.PriceTrendPoint) string {
	var sb strings.Builder

	sb.WriteString("date,price,sales\n")
	for _, p := range trend {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%d\n", p.Date, p.Price, p.Sales))
	}

	return sb.String()
}
