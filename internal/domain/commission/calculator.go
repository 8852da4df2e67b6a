package commission

import (
	"context"
	"fmt"

	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// Calculator aggregates approved sales into commission totals. It performs no
// writes, so a caller can re-run it freely to preview totals before a payslip
// generation commits them.
type Calculator struct {
	saleRepo sale.SaleRepository
}

func NewCalculator(saleRepo sale.SaleRepository) *Calculator {
	return &Calculator{saleRepo: saleRepo}
}

// PeriodTotals sums the APPROVED sales visible to the profile (its own plus,
// for a branch manager, those of the given linked agents) whose sale date
// falls inside the period. REFUNDED sales left APPROVED status behind, so
// they are excluded by construction.
func (c *Calculator) PeriodTotals(ctx context.Context, p profile.Profile, agentIDs []string, period Period) (Totals, error) {
	profileIDs := append([]string{p.ID}, agentIDs...)
	from, to := period.Bounds()

	sales, err := c.saleRepo.ListApprovedInPeriod(ctx, profileIDs, from, to)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to list approved sales for period %s: %w", period, err)
	}

	totalSales := decimal.Zero
	count := 0
	for _, s := range sales {
		if s.Status != sale.SaleStatusApproved {
			continue
		}
		totalSales = totalSales.Add(s.Amount)
		count++
	}

	return TotalsFor(p.Role, totalSales, count), nil
}
