package emissions

import (
	"fmt"
	"testing"
	"time"

	"vetiver-carbon-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEmissions(t *testing.T) {
	tests := []struct {
		name           string
		electricityKWh float64
		dieselLiters   float64
		want           float64
	}{
		{"both zero", 0, 0, 0},
		{"electricity only", 1000, 0, 0.45},
		{"diesel only", 0, 1000, 2.68},
		{"typical intake", 1000, 500, (1000*0.45 + 500*2.68) / 1000}, // 1.79
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEmissions(tt.electricityKWh, tt.dieselLiters)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestComputeEmissions_NegativeInput(t *testing.T) {
	_, err := ComputeEmissions(-1, 0)
	assert.ErrorIs(t, err, ErrNegativeInput)

	_, err = ComputeEmissions(0, -0.5)
	assert.ErrorIs(t, err, ErrNegativeInput)
}

func TestPeriodDays(t *testing.T) {
	days, err := PeriodDays(date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	days, err = PeriodDays(date(2024, 3, 1), date(2024, 3, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	_, err = PeriodDays(date(2024, 3, 7), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestComputeCapture_GatedBySite(t *testing.T) {
	// A terminal without a capture system captures nothing, whatever the range.
	got, err := ComputeCapture(false, date(2024, 1, 1), date(2024, 1, 30))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestComputeCapture_SameDay(t *testing.T) {
	got, err := ComputeCapture(true, date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.InDelta(t, DailyCaptureRateTons, got, 1e-9)
}

func TestComputeCapture_SevenDays(t *testing.T) {
	got, err := ComputeCapture(true, date(2024, 3, 1), date(2024, 3, 7))
	require.NoError(t, err)
	assert.InDelta(t, 0.315, got, 1e-9)
}

func TestComputeCapture_InvalidPeriod(t *testing.T) {
	_, err := ComputeCapture(true, date(2024, 3, 7), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	// The range is validated before the capture gate, so an inverted range
	// fails even at a site that captures nothing.
	_, err = ComputeCapture(false, date(2024, 3, 7), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestWeekStart(t *testing.T) {
	monday := date(2024, 3, 4)

	assert.Equal(t, monday, WeekStart(monday))
	assert.Equal(t, monday, WeekStart(date(2024, 3, 6)))  // Wednesday
	assert.Equal(t, monday, WeekStart(date(2024, 3, 10))) // Sunday
}

func weekRecords(weekStart time.Time, n int) []models.Record {
	var records []models.Record
	for i := 0; i < n; i++ {
		records = append(records, models.Record{
			RecordID:  fmt.Sprintf("REG-%08d", i),
			Fecha:     weekStart.AddDate(0, 0, i),
			Origen:    "terminal-espigon",
			Emisiones: 1.5,
			Captura:   0.045,
			Estado:    models.StatusPending,
		})
	}
	return records
}

func TestAggregateWeek_CompleteWeek(t *testing.T) {
	monday := date(2024, 3, 4)

	report, ok := AggregateWeek(monday, weekRecords(monday, 7))
	require.True(t, ok)
	assert.Equal(t, "REP-SEM-2024-10", report.ReportID)
	assert.Equal(t, monday, report.WeekStart)
	assert.Equal(t, date(2024, 3, 10), report.WeekEnd)
	assert.InDelta(t, 7*1.5, report.Emisiones, 1e-9)
	assert.InDelta(t, 7*0.045, report.Captura, 1e-9)
	assert.Len(t, report.RecordIDs, 7)
}

func TestAggregateWeek_IncompleteWeek(t *testing.T) {
	monday := date(2024, 3, 4)

	report, ok := AggregateWeek(monday, weekRecords(monday, 6))
	assert.False(t, ok)
	assert.Nil(t, report)
}

func TestAggregateWeek_IgnoresOutsideRecords(t *testing.T) {
	monday := date(2024, 3, 4)
	records := weekRecords(monday, 7)
	records = append(records, models.Record{
		RecordID:  "REG-OUTSIDE",
		Fecha:     date(2024, 3, 11), // next Monday
		Emisiones: 100,
	})

	report, ok := AggregateWeek(monday, records)
	require.True(t, ok)
	assert.InDelta(t, 7*1.5, report.Emisiones, 1e-9)
	assert.NotContains(t, report.RecordIDs, "REG-OUTSIDE")
}
