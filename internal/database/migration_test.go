package database

import (
	"testing"
	"time"

	"vetiver-carbon-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacy_DateObj(t *testing.T) {
	old := legacyDailyRecord{
		DateObj:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Origin:    "terminal-norte",
		IsManual:  true,
		Emisiones: 0.5,
	}

	record, ok := normalizeLegacy(old)
	require.True(t, ok)
	assert.Equal(t, old.DateObj, record.Fecha)
	assert.Equal(t, "terminal-norte", record.Origen)
	assert.Equal(t, 0.5, record.Emisiones)
	assert.Equal(t, models.StatusPending, record.Estado)
	assert.True(t, record.Datos.Manual)
	assert.Regexp(t, `^REG-[0-9A-F]{8}$`, record.RecordID)
}

func TestNormalizeLegacy_FallsBackToDateStr(t *testing.T) {
	old := legacyDailyRecord{
		DateStr:   "2024-03-04",
		Origin:    "terminal-norte",
		Emisiones: 1.2,
		Estado:    models.StatusApproved,
	}

	record, ok := normalizeLegacy(old)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), record.Fecha)
	// An already-resolved legacy record keeps its status.
	assert.Equal(t, models.StatusApproved, record.Estado)
}

func TestNormalizeLegacy_DropsCorruptDocuments(t *testing.T) {
	tests := []struct {
		name string
		old  legacyDailyRecord
	}{
		{"no date at all", legacyDailyRecord{Origin: "terminal-norte"}},
		{"unparseable dateStr", legacyDailyRecord{DateStr: "04/03/2024", Origin: "terminal-norte"}},
		{"missing origin", legacyDailyRecord{DateStr: "2024-03-04"}},
		{"negative emissions", legacyDailyRecord{DateStr: "2024-03-04", Origin: "terminal-norte", Emisiones: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := normalizeLegacy(tt.old)
			assert.False(t, ok)
			assert.Nil(t, record)
		})
	}
}
