package insight

import (
	"testing"

	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/service"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(service.ReportInput{
		Period:             entity.TimeFrameWeek,
		PeriodTotal:        12,
		TopUser:            &entity.User{ID: "u1", Name: "Ana García"},
		HistoricTotal:      240,
		ActiveContributors: 3,
		RosterSize:         4,
	})

	assert.Contains(t, prompt, "Datos actuales (esta semana):")
	assert.Contains(t, prompt, "Total productos subidos (ISINs): 12")
	assert.Contains(t, prompt, "Usuario más destacado: Ana García")
	assert.Contains(t, prompt, "Total histórico de registros: 240")
	assert.Contains(t, prompt, "Usuarios activos: 3 de 4")
}

func TestBuildPrompt_NoTopUser(t *testing.T) {
	prompt := buildPrompt(service.ReportInput{Period: entity.TimeFrameDay})

	assert.Contains(t, prompt, "Usuario más destacado: Nadie aún")
	assert.Contains(t, prompt, "Datos actuales (hoy):")
}

func TestExtractText(t *testing.T) {
	resp := generateContentResponse{}
	assert.Equal(t, "", extractText(resp))

	resp.Candidates = []struct {
		Content content `json:"content"`
	}{
		{Content: content{Parts: []part{{Text: "Buen "}, {Text: "ritmo.\n"}}}},
	}
	assert.Equal(t, "Buen ritmo.", extractText(resp))
}
