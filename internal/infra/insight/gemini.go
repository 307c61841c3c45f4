package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ibspot/config"
	"ibspot/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const generativeLanguageURL = "https://generativelanguage.googleapis.com/v1beta"

const requestTimeout = 30 * time.Second

// GeminiService generates the productivity summary through the Gemini
// generateContent REST endpoint.
type GeminiService struct {
	apiKey string
	model  string
	client *http.Client
	logger *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Gemini-backed insight service. It returns nil when no API
// key is configured: callers fall back to a canned message.
func New(params Params) service.InsightService {
	cfg := params.Config.Gemini
	if cfg == nil || cfg.APIKey == "" {
		params.Logger.Warn("Gemini API key is not configured, insight generation disabled")

		return nil
	}

	return &GeminiService{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: &http.Client{Timeout: requestTimeout},
		logger: params.Logger,
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateAnalysis asks the model for a short Spanish summary of the
// period's activity.
func (s *GeminiService) GenerateAnalysis(ctx context.Context, input service.ReportInput) (string, error) {
	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(input)}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode generateContent request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		generativeLanguageURL, s.model, url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create generateContent request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to call Gemini")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		return "", errors.Errorf("generateContent failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "failed to decode generateContent response")
	}

	text := extractText(decoded)
	if text == "" {
		return "No se pudo generar el análisis.", nil
	}

	return text, nil
}

// buildPrompt renders the motivational-analyst prompt with the period's
// metrics.
func buildPrompt(input service.ReportInput) string {
	topUser := "Nadie aún"
	if input.TopUser != nil {
		topUser = input.TopUser.Name
	}

	var b strings.Builder
	b.WriteString("Actúa como un analista de productividad motivador para la empresa Ibspot.\n\n")
	fmt.Fprintf(&b, "Datos actuales (%s):\n", input.Period.PeriodName())
	fmt.Fprintf(&b, "- Total productos subidos (ISINs): %d\n", input.PeriodTotal)
	fmt.Fprintf(&b, "- Usuario más destacado: %s\n", topUser)
	fmt.Fprintf(&b, "- Total histórico de registros: %d\n", input.HistoricTotal)
	fmt.Fprintf(&b, "- Usuarios activos: %d de %d\n\n", input.ActiveContributors, input.RosterSize)
	b.WriteString("Escribe un breve resumen analítico (máximo 50 palabras) en español.\n")
	b.WriteString("Si el rendimiento es bueno, felicítalos. Si es bajo, anímalos de forma profesional.\n")
	b.WriteString("Menciona al usuario destacado si existe.")

	return b.String()
}

func extractText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}

	return strings.TrimSpace(b.String())
}
