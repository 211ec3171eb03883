// Package business projects the commercial impact of a recommended price
// and renders the justification text attached to each recommendation.
package business

import (
	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/market"
)

const (
	demandPerUnitStock = 0.3
	maxBaseDemand      = 50
)

// EstimateImpact projects demand, revenue, and waste effects of moving a
// product from its current price to the recommended one. Outputs are point
// estimates driven by the category's price elasticity.
func EstimateImpact(snap *models.ProductSnapshot, recommendedPrice float64) *models.BusinessImpact {
	currentPrice := snap.CurrentPrice
	stock := float64(snap.StockLeft)

	priceChange := (recommendedPrice - currentPrice) / currentPrice
	elasticity := market.Elasticity(snap.Category, currentPrice)
	demandChange := elasticity * priceChange

	baseDemand := stock * demandPerUnitStock
	if baseDemand > maxBaseDemand {
		baseDemand = maxBaseDemand
	}
	newDemand := baseDemand * (1 + demandChange)
	actualSales := newDemand
	if actualSales > stock {
		actualSales = stock
	}

	currentRevenue := baseDemand * currentPrice
	newRevenue := actualSales * recommendedPrice

	wasteReduction := actualSales - baseDemand
	if wasteReduction < 0 {
		wasteReduction = 0
	}

	return &models.BusinessImpact{
		DemandChangePercent:    demandChange * 100,
		EstimatedSalesUnits:    actualSales,
		CurrentRevenueEstimate: currentRevenue,
		NewRevenueEstimate:     newRevenue,
		RevenueImpact:          newRevenue - currentRevenue,
		WasteReductionUnits:    wasteReduction,
		MarginImpactPercent:    priceChange * 100,
	}
}
