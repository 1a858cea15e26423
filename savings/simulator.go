package savings

import (
	"errors"

	"ecowatch/models"
)

const (
	RecyclablePercentage = 0.60
	SystemEfficiency     = 0.85

	DefaultPopulation = 1000
	DefaultLPCD       = 135

	daysPerMonth = 30
)

var ErrNegativeInput = errors.New("population and lpcd must not be negative")

// Simulation is the monthly conservation impact for a community
type Simulation struct {
	Population        int     `json:"population"`
	LPCD              int     `json:"lpcd"`
	TotalDemand       float64 `json:"totalDemand"`
	GreywaterRecycled float64 `json:"greywaterRecycled"`
	NetFreshwater     float64 `json:"netFreshwater"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

// Simulate computes monthly demand and how much greywater recycling offsets
func Simulate(population, lpcd int) (Simulation, error) {
	if population < 0 || lpcd < 0 {
		return Simulation{}, ErrNegativeInput
	}
	demand := float64(population) * float64(lpcd) * daysPerMonth
	recycled := demand * RecyclablePercentage * SystemEfficiency
	sim := Simulation{
		Population:        population,
		LPCD:              lpcd,
		TotalDemand:       demand,
		GreywaterRecycled: recycled,
		NetFreshwater:     demand - recycled,
	}
	if demand > 0 {
		sim.SavingsPercentage = recycled / demand * 100
	}
	return sim, nil
}

// MetricIndicators grades each water quality reading
type MetricIndicators struct {
	PH          models.Indicator `json:"ph"`
	TDS         models.Indicator `json:"tds"`
	Turbidity   models.Indicator `json:"turbidity"`
	Temperature models.Indicator `json:"temperature"`
}

// Indicators applies the dashboard thresholds to m
func Indicators(m models.WaterQualityMetrics) MetricIndicators {
	out := MetricIndicators{
		PH:          models.IndicatorYellow,
		TDS:         models.IndicatorYellow,
		Turbidity:   models.IndicatorRed,
		Temperature: models.IndicatorYellow,
	}
	if m.PH > 6.5 && m.PH < 8.5 {
		out.PH = models.IndicatorGreen
	}
	if m.TDS < 500 {
		out.TDS = models.IndicatorGreen
	}
	if m.Turbidity < 5 {
		out.Turbidity = models.IndicatorGreen
	}
	if m.Temperature > 10 && m.Temperature < 35 {
		out.Temperature = models.IndicatorGreen
	}
	return out
}
