// server/internal/emissions/calculator.go
package emissions

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vetiver-carbon-api-server/internal/models"
)

// Emission factors. The national grid factor is 0.45 kgCO2e/kWh (SEN); the
// diesel factor is 2.68 kgCO2e/L. Capture assumes a mature vetiver planting
// sequestering a fixed tonnage per day.
const (
	ElectricityFactorKgPerKWh = 0.45
	DieselFactorKgPerL        = 2.68
	DailyCaptureRateTons      = 0.045
)

var (
	ErrNegativeInput = errors.New("operational inputs must be non-negative")
	ErrInvalidPeriod = errors.New("period end must not be before period start")
)

// ComputeEmissions converts consumed electricity and diesel into tCO2e.
func ComputeEmissions(electricityKWh, dieselLiters float64) (float64, error) {
	if electricityKWh < 0 || dieselLiters < 0 {
		return 0, ErrNegativeInput
	}
	kg := electricityKWh*ElectricityFactorKgPerKWh + dieselLiters*DieselFactorKgPerL
	return kg / 1000.0, nil
}

// PeriodDays returns the number of days in [start, end], both endpoints
// inclusive. A same-day period counts as one day.
func PeriodDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidPeriod
	}
	days := int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	return days, nil
}

// ComputeCapture returns the carbon captured over [start, end] for a terminal.
// An inverted period is a validation error for every site; only a valid range
// reaches the capture gate. Terminals without a capture system capture
// nothing, whatever the dates.
func ComputeCapture(hasCaptureSystem bool, start, end time.Time) (float64, error) {
	days, err := PeriodDays(start, end)
	if err != nil {
		return 0, err
	}
	if !hasCaptureSystem {
		return 0, nil
	}
	return float64(days) * DailyCaptureRateTons, nil
}

// WeeklyReportID builds the stable report key for the ISO week containing day.
func WeeklyReportID(day time.Time) string {
	year, week := day.ISOWeek()
	return fmt.Sprintf("REP-SEM-%d-%02d", year, week)
}

// WeekStart returns the Monday of the ISO week containing day, at midnight UTC.
func WeekStart(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	// time.Weekday numbers Sunday as 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// AggregateWeek sums the daily records of the Monday-anchored week starting at
// weekStart. A report is produced only when every one of the seven days
// Monday through Sunday has at least one record; otherwise (nil, false).
func AggregateWeek(weekStart time.Time, records []models.Record) (*models.WeeklyReport, bool) {
	weekStart = WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	var covered [7]bool
	var emisiones, captura float64
	var ids []string

	for _, r := range records {
		day := time.Date(r.Fecha.Year(), r.Fecha.Month(), r.Fecha.Day(), 0, 0, 0, 0, time.UTC)
		idx := int(day.Sub(weekStart).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		covered[idx] = true
		emisiones += r.Emisiones
		captura += r.Captura
		ids = append(ids, r.RecordID)
	}

	for _, ok := range covered {
		if !ok {
			return nil, false
		}
	}

	return &models.WeeklyReport{
		ReportID:    WeeklyReportID(weekStart),
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		Emisiones:   emisiones,
		Captura:     captura,
		RecordIDs:   ids,
		GeneratedAt: time.Now(),
	}, true
}
