// Package rate converts between compound interest rates over different
// periods. A yearly rate cannot simply be divided by twelve: interest
// compounds, so the monthly rate is the twelfth root of the yearly growth
// factor.
package rate

import (
	"fmt"
	"math"
	"time"

	"github.com/sboehler/foresight/lib/common/date"
)

// periodsPerYear returns how many of the given interval fit in a year.
func periodsPerYear(interval date.Interval) (float64, error) {
	switch interval {
	case date.Daily:
		return 365.25, nil
	case date.Weekly:
		return 365.25 / 7, nil
	case date.Monthly:
		return 12, nil
	case date.Quarterly:
		return 4, nil
	case date.Yearly:
		return 1, nil
	}
	return 0, fmt.Errorf("invalid rate interval %v", interval)
}

// PerInterval converts an annual rate to the equivalent compound rate per
// interval.
func PerInterval(annual float64, interval date.Interval) (float64, error) {
	n, err := periodsPerYear(interval)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+annual, 1/n) - 1, nil
}

// Annualize converts a per-interval compound rate to the annual rate.
func Annualize(rate float64, interval date.Interval) (float64, error) {
	n, err := periodsPerYear(interval)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+rate, n) - 1, nil
}

// Monthly converts an annual rate to a monthly one.
func Monthly(annual float64) float64 {
	return math.Pow(1+annual, 1/12.0) - 1
}

// Quarterly converts an annual rate to a quarterly one.
func Quarterly(annual float64) float64 {
	return math.Pow(1+annual, 0.25) - 1
}

// Daily converts an annual rate to a daily one.
func Daily(annual float64) float64 {
	return math.Pow(1+annual, 1/365.25) - 1
}

// RateOfReturn computes the annualized rate of return between two dated
// values.
func RateOfReturn(startDate time.Time, startValue float64, endDate time.Time, endValue float64) (float64, error) {
	if startValue == 0 {
		return 0, fmt.Errorf("rate of return undefined for zero starting value")
	}
	days := endDate.Sub(startDate).Hours() / 24
	if days <= 0 {
		return 0, fmt.Errorf("rate of return requires %s after %s",
			endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}
	growth := endValue / startValue
	daily := math.Pow(growth, 1/days)
	return math.Pow(daily, 365.25) - 1, nil
}
