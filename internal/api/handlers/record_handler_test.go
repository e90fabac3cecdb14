// server/internal/api/handlers/record_handler_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vetiver-carbon-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordRouter(memStore *store.MemStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := &RecordHandler{Store: memStore}
	router.POST("/records", handler.CreateRecord)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRecord_InvertedRangeRejected(t *testing.T) {
	memStore := store.NewMemStore(nil)
	router := newRecordRouter(memStore)

	// periodEnd before periodStart fails at the form boundary for any
	// terminal; the terminal lookup is never reached.
	w := postJSON(router, "/records", `{
		"origen": "terminal-norte",
		"periodStart": "2024-03-07",
		"periodEnd": "2024-03-01",
		"electricityKWh": 100
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	records, err := memStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateRecord_BadDatesRejected(t *testing.T) {
	memStore := store.NewMemStore(nil)
	router := newRecordRouter(memStore)

	tests := []struct {
		name string
		body string
	}{
		{"missing dates", `{"origen":"terminal-norte","electricityKWh":100}`},
		{"half range", `{"origen":"terminal-norte","periodStart":"2024-03-01"}`},
		{"malformed fecha", `{"origen":"terminal-norte","fecha":"07/03/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/records", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	records, err := memStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
