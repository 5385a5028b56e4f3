package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"seller-backend/internal/models"
)

const unassignedBrand = "Unassigned brand"

// Summarize folds a seller's orders into dashboard totals and per-brand rollups,
// brands sorted by SRP descending.
func Summarize(orders []models.DashboardOrder) models.Dashboard {
	d := models.Dashboard{
		TotalSRP:       decimal.Zero,
		TotalCost:      decimal.Zero,
		TotalProfit:    decimal.Zero,
		PendingBalance: decimal.Zero,
		Brands:         []models.BrandRollup{},
	}

	byBrand := make(map[int]*models.BrandRollup)
	var noBrand *models.BrandRollup

	for _, o := range orders {
		profit := EffectiveProfit(o.Profit, o.TotalSRP, o.TotalCost)

		d.OrderCount++
		d.TotalSRP = d.TotalSRP.Add(o.TotalSRP)
		d.TotalCost = d.TotalCost.Add(o.TotalCost)
		d.TotalProfit = d.TotalProfit.Add(profit)

		if o.Status == models.OrderStatusPaid {
			d.PaidOrders++
		}
		if o.PaymentType.IsCredit() && o.Status == models.OrderStatusPending {
			d.PendingCredit++
			d.PendingBalance = d.PendingBalance.Add(Remaining(Balance{TotalSRP: o.TotalSRP, PaidAmount: o.PaidAmount}))
		}

		var r *models.BrandRollup
		if o.BrandID == nil {
			if noBrand == nil {
				noBrand = &models.BrandRollup{Name: unassignedBrand, TotalSRP: decimal.Zero, TotalProfit: decimal.Zero}
			}
			r = noBrand
		} else {
			r = byBrand[*o.BrandID]
			if r == nil {
				id := *o.BrandID
				name := o.BrandName
				if name == "" {
					name = unassignedBrand
				}
				r = &models.BrandRollup{BrandID: &id, Name: name, TotalSRP: decimal.Zero, TotalProfit: decimal.Zero}
				byBrand[id] = r
			}
		}
		r.OrderCount++
		r.TotalSRP = r.TotalSRP.Add(o.TotalSRP)
		r.TotalProfit = r.TotalProfit.Add(profit)
	}

	for _, r := range byBrand {
		d.Brands = append(d.Brands, *r)
	}
	if noBrand != nil {
		d.Brands = append(d.Brands, *noBrand)
	}
	sort.SliceStable(d.Brands, func(i, j int) bool {
		if c := d.Brands[i].TotalSRP.Cmp(d.Brands[j].TotalSRP); c != 0 {
			return c > 0
		}
		return d.Brands[i].Name < d.Brands[j].Name
	})
	return d
}
