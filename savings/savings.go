package savings

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ecowatch/models"
)

// Period selects which savings total is tracked
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Mode selects how the total is displayed
type Mode string

const (
	ModeLitres Mode = "litres"
	ModeMoney  Mode = "money"
)

// CostPerLitre in rupees
var CostPerLitre = decimal.RequireFromString("0.35")

var (
	rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))
	litrePrinter = message.NewPrinter(language.English)
)

// Goals in litres per period
var Goals = map[Period]float64{
	PeriodToday: 200,
	PeriodWeek:  1400,
	PeriodMonth: 5000,
}

var (
	ErrUnknownPeriod = errors.New("period must be today, week or month")
	ErrUnknownMode   = errors.New("mode must be litres or money")
)

// Progress is the tracker view for one period
type Progress struct {
	Period  Period  `json:"period"`
	Mode    Mode    `json:"mode"`
	Litres  float64 `json:"litres"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
	Display string  `json:"display"`
}

// Track computes progress toward the goal of period. Percent is capped at 100.
func Track(saved models.WaterSaved, period Period, mode Mode) (Progress, error) {
	if period == "" {
		period = PeriodMonth
	}
	if mode == "" {
		mode = ModeLitres
	}
	goal, ok := Goals[period]
	if !ok {
		return Progress{}, ErrUnknownPeriod
	}

	var litres float64
	switch period {
	case PeriodToday:
		litres = saved.Today
	case PeriodWeek:
		litres = saved.Week
	case PeriodMonth:
		litres = saved.Month
	}

	p := Progress{
		Period:  period,
		Mode:    mode,
		Litres:  litres,
		Goal:    goal,
		Percent: math.Min(litres/goal*100, 100),
	}
	switch mode {
	case ModeLitres:
		p.Display = FormatLitres(litres)
	case ModeMoney:
		p.Display = FormatRupees(litres)
	default:
		return Progress{}, ErrUnknownMode
	}
	return p, nil
}

// FormatRupees prices litres at CostPerLitre in en-IN currency style, e.g. ₹1,47,000.00
func FormatRupees(litres float64) string {
	amount := decimal.NewFromFloat(litres).Mul(CostPerLitre).Round(2)
	out := "₹" + rupeePrinter.Sprintf("%.2f", amount.Abs().InexactFloat64())
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatLitres renders a whole-litre total with thousands separators, e.g. 4,200 L
func FormatLitres(litres float64) string {
	return litrePrinter.Sprintf("%d L", decimal.NewFromFloat(litres).Round(0).IntPart())
}
