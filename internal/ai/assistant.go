// server/internal/ai/assistant.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vetiver-carbon-api-server/internal/ai/mistral"
	"vetiver-carbon-api-server/internal/emissions"
	"vetiver-carbon-api-server/internal/store"
)

// The assistant exposes exactly three verbs against the record store; the
// model must answer with one JSON action per turn.
const (
	actionAnswer = "answer"
	actionFetch  = "fetch_records"
	actionCreate = "create_record"
	actionExport = "export_records"
)

// Conversationer is the slice of the Mistral client the assistant needs.
type Conversationer interface {
	SendConversation(ctx context.Context, prompt string) (*mistral.ConversationResponse, error)
}

// CaptureLookup reports whether a terminal has a capture system.
type CaptureLookup func(ctx context.Context, terminalID string) (bool, error)

// ExportFunc generates the spreadsheet export and returns its download URL.
type ExportFunc func(ctx context.Context) (string, error)

type Assistant struct {
	Client  Conversationer
	Store   store.RecordStore
	Capture CaptureLookup
	Export  ExportFunc
}

// action is the JSON envelope the model is instructed to reply with.
type action struct {
	Action string       `json:"action"`
	Params actionParams `json:"params"`
	// Message carries the final text for the "answer" action.
	Message string `json:"message"`
}

type actionParams struct {
	Terminal       string  `json:"terminal"`
	ElectricityKWh float64 `json:"electricityKWh"`
	DieselLiters   float64 `json:"dieselLiters"`
	Fecha          string  `json:"fecha"`
	PeriodStart    string  `json:"periodStart"`
	PeriodEnd      string  `json:"periodEnd"`
}

const systemPrompt = `Eres el asistente del panel de carbono del puerto.
Responde SIEMPRE con un único objeto JSON, sin texto adicional:
- {"action":"answer","message":"..."} para responder directamente.
- {"action":"fetch_records"} para consultar todos los registros.
- {"action":"create_record","params":{"terminal":"...","electricityKWh":N,"dieselLiters":N,"fecha":"YYYY-MM-DD","periodStart":"YYYY-MM-DD","periodEnd":"YYYY-MM-DD"}} para crear un registro (periodStart/periodEnd solo para rangos).
- {"action":"export_records"} para generar el reporte descargable.

Mensaje del usuario: %s`

// Chat runs one assistant turn: ask the model for an action, execute it, and
// return the final natural-language reply.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	if a.Client == nil {
		return "", errors.New("assistant is not configured")
	}

	resp, err := a.Client.SendConversation(ctx, fmt.Sprintf(systemPrompt, message))
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}

	act, err := parseAction(resp.FirstText())
	if err != nil {
		// The model ignored the contract; hand its text back as-is.
		if text := resp.FirstText(); text != "" {
			return text, nil
		}
		return "", err
	}

	switch act.Action {
	case actionAnswer:
		return act.Message, nil
	case actionFetch:
		return a.fetchAndSummarize(ctx, message)
	case actionCreate:
		return a.createRecord(ctx, act.Params)
	case actionExport:
		if a.Export == nil {
			return "", errors.New("export is not available")
		}
		url, err := a.Export(ctx)
		if err != nil {
			return "", fmt.Errorf("export failed: %w", err)
		}
		return fmt.Sprintf("Reporte generado: %s", url), nil
	default:
		return "", fmt.Errorf("unknown assistant action %q", act.Action)
	}
}

func (a *Assistant) fetchAndSummarize(ctx context.Context, message string) (string, error) {
	records, err := a.Store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch records: %w", err)
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Eres el asistente del panel de carbono del puerto.
Responde en lenguaje natural a la pregunta del usuario usando estos registros (JSON): %s

Pregunta: %s`, string(payload), message)

	resp, err := a.Client.SendConversation(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	return resp.FirstText(), nil
}

func (a *Assistant) createRecord(ctx context.Context, params actionParams) (string, error) {
	if params.Terminal == "" {
		return "", errors.New("create_record requires a terminal")
	}

	emitted, err := emissions.ComputeEmissions(params.ElectricityKWh, params.DieselLiters)
	if err != nil {
		return "", err
	}

	input := store.RecordInput{
		Origen:    params.Terminal,
		Emisiones: emitted,
	}
	input.Datos.ElectricityKWh = params.ElectricityKWh
	input.Datos.DieselLiters = params.DieselLiters

	if params.PeriodStart != "" && params.PeriodEnd != "" {
		start, err := time.Parse("2006-01-02", params.PeriodStart)
		if err != nil {
			return "", fmt.Errorf("invalid periodStart: %w", err)
		}
		end, err := time.Parse("2006-01-02", params.PeriodEnd)
		if err != nil {
			return "", fmt.Errorf("invalid periodEnd: %w", err)
		}
		// Reject inverted ranges before the capture lookup, same rule as the form.
		if _, err := emissions.PeriodDays(start, end); err != nil {
			return "", err
		}

		hasCapture := false
		if a.Capture != nil {
			hasCapture, err = a.Capture(ctx, params.Terminal)
			if err != nil {
				return "", err
			}
		}
		captured, err := emissions.ComputeCapture(hasCapture, start, end)
		if err != nil {
			return "", err
		}

		input.Fecha = end
		input.Captura = captured
		input.Datos.PeriodStart = &start
		input.Datos.PeriodEnd = &end
	} else {
		fecha := time.Now()
		if params.Fecha != "" {
			fecha, err = time.Parse("2006-01-02", params.Fecha)
			if err != nil {
				return "", fmt.Errorf("invalid fecha: %w", err)
			}
		}
		input.Fecha = fecha
	}

	record, err := a.Store.Create(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create record: %w", err)
	}

	return fmt.Sprintf("Registro %s creado: %.4f t emitidas, %.4f t capturadas, estado %s.",
		record.RecordID, record.Emisiones, record.Captura, record.Estado), nil
}

// parseAction decodes the model's JSON reply, tolerating markdown code fences.
func parseAction(text string) (*action, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var act action
	if err := json.Unmarshal([]byte(text), &act); err != nil {
		return nil, fmt.Errorf("assistant reply is not a valid action: %w", err)
	}
	if act.Action == "" {
		return nil, errors.New("assistant reply has no action")
	}
	return &act, nil
}
