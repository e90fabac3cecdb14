package ai

import (
	"context"
	"testing"

	"vetiver-carbon-api-server/internal/ai/mistral"
	"vetiver-carbon-api-server/internal/emissions"
	"vetiver-carbon-api-server/internal/models"
	"vetiver-carbon-api-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replays canned responses, one per SendConversation call.
type scriptedClient struct {
	replies []string
	calls   int
	prompts []string
}

func (c *scriptedClient) SendConversation(ctx context.Context, prompt string) (*mistral.ConversationResponse, error) {
	c.prompts = append(c.prompts, prompt)
	reply := c.replies[c.calls]
	c.calls++
	return &mistral.ConversationResponse{
		Message: mistral.ConversationPiece{Type: "text", Content: reply},
	}, nil
}

func newTestAssistant(client Conversationer) (*Assistant, *store.MemStore) {
	memStore := store.NewMemStore(nil)
	assistant := &Assistant{
		Client: client,
		Store:  memStore,
		Capture: func(ctx context.Context, terminalID string) (bool, error) {
			return terminalID == "terminal-espigon", nil
		},
		Export: func(ctx context.Context) (string, error) {
			return "https://cdn.example.com/exports/registros.xlsx", nil
		},
	}
	return assistant, memStore
}

func TestChat_AnswerAction(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"action":"answer","message":"Hola"}`}}
	assistant, _ := newTestAssistant(client)

	reply, err := assistant.Chat(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Hola", reply)
	assert.Equal(t, 1, client.calls)
}

func TestChat_ToleratesCodeFences(t *testing.T) {
	client := &scriptedClient{replies: []string{"```json\n{\"action\":\"answer\",\"message\":\"Hola\"}\n```"}}
	assistant, _ := newTestAssistant(client)

	reply, err := assistant.Chat(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Hola", reply)
}

func TestChat_FetchRecords(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action":"fetch_records"}`,
		"Tienes 1 registro pendiente.",
	}}
	assistant, memStore := newTestAssistant(client)

	_, err := memStore.Create(context.Background(), store.RecordInput{Origen: "terminal-norte", Emisiones: 0.5})
	require.NoError(t, err)

	reply, err := assistant.Chat(context.Background(), "¿cuántos registros hay?")
	require.NoError(t, err)
	assert.Equal(t, "Tienes 1 registro pendiente.", reply)
	require.Equal(t, 2, client.calls)
	// The follow-up prompt must carry the fetched records.
	assert.Contains(t, client.prompts[1], "terminal-norte")
}

func TestChat_CreateRecord_Range(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action":"create_record","params":{"terminal":"terminal-espigon","electricityKWh":1000,"dieselLiters":500,"periodStart":"2024-03-01","periodEnd":"2024-03-07"}}`,
	}}
	assistant, memStore := newTestAssistant(client)

	reply, err := assistant.Chat(context.Background(), "registra la semana")
	require.NoError(t, err)
	assert.Contains(t, reply, "creado")

	records, err := memStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "terminal-espigon", records[0].Origen)
	assert.InDelta(t, 1.79, records[0].Emisiones, 1e-9)
	assert.InDelta(t, 0.315, records[0].Captura, 1e-9)
	assert.Equal(t, models.StatusPending, records[0].Estado)
}

func TestChat_CreateRecord_NoCaptureSite(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action":"create_record","params":{"terminal":"terminal-norte","electricityKWh":100,"dieselLiters":0,"periodStart":"2024-03-01","periodEnd":"2024-03-30"}}`,
	}}
	assistant, memStore := newTestAssistant(client)

	_, err := assistant.Chat(context.Background(), "registra el mes")
	require.NoError(t, err)

	records, err := memStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Captura)
}

func TestChat_CreateRecord_InvertedRangeRejected(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action":"create_record","params":{"terminal":"terminal-norte","electricityKWh":100,"periodStart":"2024-03-07","periodEnd":"2024-03-01"}}`,
	}}
	assistant, memStore := newTestAssistant(client)

	_, err := assistant.Chat(context.Background(), "registra la semana")
	require.ErrorIs(t, err, emissions.ErrInvalidPeriod)

	// Nothing may be persisted, even though a no-capture site skips the
	// capture computation.
	records, err := memStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChat_ExportRecords(t *testing.T) {
	client := &scriptedClient{replies: []string{`{"action":"export_records"}`}}
	assistant, _ := newTestAssistant(client)

	reply, err := assistant.Chat(context.Background(), "exporta todo")
	require.NoError(t, err)
	assert.Contains(t, reply, "https://cdn.example.com/exports/registros.xlsx")
}

func TestChat_NonJSONReplyPassesThrough(t *testing.T) {
	client := &scriptedClient{replies: []string{"No puedo ayudarte con eso."}}
	assistant, _ := newTestAssistant(client)

	reply, err := assistant.Chat(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "No puedo ayudarte con eso.", reply)
}
