package commission

import (
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/shopspring/decimal"
)

// Commission rates by role. Branch managers earn a higher tier because their
// totals roll up the sales of every actively linked agent.
var rateTable = map[profile.Role]decimal.Decimal{
	profile.RoleAgent:         decimal.NewFromFloat(0.10),
	profile.RoleBranchManager: decimal.NewFromFloat(0.12),
}

// WithholdingRate is the flat withholding applied to commission before payout.
var WithholdingRate = decimal.NewFromFloat(0.033)

// RateFor returns the commission rate for a role. Unknown roles earn nothing.
func RateFor(role profile.Role) decimal.Decimal {
	if rate, ok := rateTable[role]; ok {
		return rate
	}
	return decimal.Zero
}

// Totals is the deterministic aggregation result for one profile and period.
type Totals struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalWithholding decimal.Decimal `json:"total_withholding"`
	NetPayment       decimal.Decimal `json:"net_payment"`
	SaleCount        int             `json:"sale_count"`
}

// TotalsFor computes commission totals from a gross sales sum. Rounding is to
// whole currency units, half up, applied per aggregate rather than per sale.
func TotalsFor(role profile.Role, totalSales decimal.Decimal, saleCount int) Totals {
	commission := totalSales.Mul(RateFor(role)).Round(0)
	withholding := commission.Mul(WithholdingRate).Round(0)

	return Totals{
		TotalSales:       totalSales,
		TotalCommission:  commission,
		TotalWithholding: withholding,
		NetPayment:       commission.Sub(withholding),
		SaleCount:        saleCount,
	}
}
