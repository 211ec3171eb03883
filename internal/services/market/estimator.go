package market

import (
	"strings"
	"time"
)

// Category elasticity coefficients: assumed percent demand change per percent
// price change. Negative means demand falls as price rises.
var elasticityByCategory = map[string]float64{
	"fruits & vegetables": -1.2,
	"dairy":               -0.8,
	"meat":                -0.6,
	"seafood":             -0.7,
	"bakery":              -1.0,
	"beverages":           -0.9,
	"pantry":              -0.4,
}

const defaultElasticity = -0.8

// Elasticity estimates price elasticity for a product from its category and
// price level. Expensive items (>15) are treated as more elastic, cheap
// items (<3) as less elastic.
func Elasticity(category string, price float64) float64 {
	e, ok := elasticityByCategory[strings.ToLower(category)]
	if !ok {
		e = defaultElasticity
	}
	if price > 15 {
		e *= 1.2
	} else if price < 3 {
		e *= 0.8
	}
	return e
}

// DemandMultiplier returns the time-of-day/day-of-week demand factor.
// Lunch and dinner hours boost 1.3x, breakfast 1.1x, weekends 1.2x; the
// factors compose multiplicatively and currently do not vary by category.
func DemandMultiplier(now time.Time) float64 {
	m := 1.0
	h := now.Hour()
	switch {
	case (h >= 11 && h <= 13) || (h >= 17 && h <= 19):
		m *= 1.3
	case h >= 6 && h <= 9:
		m *= 1.1
	}
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		m *= 1.2
	}
	return m
}

// SeasonalFactor returns the seasonal demand multiplier for a category.
// Fresh produce peaks in summer and dips in winter; meat and seafood get a
// holiday boost; dairy is flat year-round.
func SeasonalFactor(category string, now time.Time) float64 {
	c := strings.ToLower(category)
	month := int(now.Month())
	switch {
	case strings.Contains(c, "fruits") || strings.Contains(c, "vegetables"):
		if month >= 5 && month <= 8 {
			return 1.2
		}
		if month == 12 || month == 1 || month == 2 {
			return 0.9
		}
	case strings.Contains(c, "dairy"):
		return 1.0
	case strings.Contains(c, "meat") || strings.Contains(c, "seafood"):
		if month == 11 || month == 12 {
			return 1.3
		}
	}
	return 1.0
}

// CompetitorRatio estimates our price relative to competitors from keywords
// in the product name. A stand-in until a real competitor feed exists.
func CompetitorRatio(name string) float64 {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "premium"):
		return 0.95
	case strings.Contains(n, "organic"):
		return 1.05
	default:
		return 1.0
	}
}

// UrgencyScore blends expiry proximity and stock surplus into a 0-1 signal.
// Expiry dominates with weight 0.7; low stock reduces urgency to sell.
func UrgencyScore(daysToExpiry float64, stockLeft int) float64 {
	expiryUrgency := (7 - daysToExpiry) / 7
	if expiryUrgency < 0 {
		expiryUrgency = 0
	}
	stockUrgency := float64(stockLeft) / 20
	if stockUrgency > 1 {
		stockUrgency = 1
	}
	stockUrgency = 1 - stockUrgency
	return 0.7*expiryUrgency + 0.3*stockUrgency
}
