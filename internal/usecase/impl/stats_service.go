package impl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/service"
	"ibspot/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	insightNoAPIKey = "Clave API no configurada. No se puede generar el análisis."
	insightFailed   = "Error al conectar con el asistente de IA."
	deletedUserName = "Usuario Eliminado"
)

var spanishMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// statsService implements the StatsUsecase interface: reporting over the
// cached collections. Everything here is a pure read and works offline.
type statsService struct {
	entries usecase.EntryUsecase
	roster  usecase.RosterUsecase
	insight service.InsightService
	logger  *slog.Logger
}

// StatsServiceParams holds dependencies for the stats service, injected by Fx.
type StatsServiceParams struct {
	fx.In

	Entries usecase.EntryUsecase
	Roster  usecase.RosterUsecase
	Insight service.InsightService `optional:"true"`
	Logger  *slog.Logger
}

// NewStatsService is the constructor for statsService.
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		entries: params.Entries,
		roster:  params.Roster,
		insight: params.Insight,
		logger:  params.Logger,
	}
}

// filtered returns the entries whose timestamp falls inside the period
// containing now.
func (srv *statsService) filtered(tf entity.TimeFrame) []entity.IsinEntry {
	start := tf.StartOfPeriod(time.Now()).UnixMilli()
	all := srv.entries.GetEntries()
	inPeriod := make([]entity.IsinEntry, 0, len(all))
	for _, e := range all {
		if e.Timestamp >= start {
			inPeriod = append(inPeriod, e)
		}
	}

	return inPeriod
}

// Leaderboard counts entries per user in the period, most productive first.
func (srv *statsService) Leaderboard(tf entity.TimeFrame) []usecase.LeaderboardRow {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, e := range srv.filtered(tf) {
		if _, seen := counts[e.UserID]; !seen {
			order = append(order, e.UserID)
		}
		counts[e.UserID]++
	}

	roster := entity.Roster(srv.roster.GetUsers())
	rows := make([]usecase.LeaderboardRow, 0, len(order))
	for _, userID := range order {
		rows = append(rows, usecase.LeaderboardRow{
			UserID: userID,
			User:   roster.FindByID(userID),
			Count:  counts[userID],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	return rows
}

// ChartData buckets the period's entries per calendar day, oldest day first.
func (srv *statsService) ChartData(tf entity.TimeFrame) []usecase.ChartPoint {
	counts := make(map[string]int)
	for _, e := range srv.filtered(tf) {
		counts[e.DateStr]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]usecase.ChartPoint, 0, len(days))
	for _, day := range days {
		points = append(points, usecase.ChartPoint{Label: shortSpanishDate(day), Value: counts[day]})
	}

	return points
}

// Dashboard summarizes the period: total, top contributor and per-day average.
func (srv *statsService) Dashboard(tf entity.TimeFrame) usecase.DashboardStats {
	inPeriod := srv.filtered(tf)
	stats := usecase.DashboardStats{Total: len(inPeriod)}

	if board := srv.Leaderboard(tf); len(board) > 0 {
		stats.TopUser = board[0].User
		stats.TopCount = board[0].Count
	}

	activeDays := len(srv.ChartData(tf))
	if activeDays == 0 {
		activeDays = 1
	}
	stats.DailyAverage = int(math.Round(float64(len(inPeriod)) / float64(activeDays)))

	return stats
}

// ExportCSV writes the full history to w: UTF-8 with BOM so spreadsheet
// applications pick the encoding up, Spanish headers matching the UI.
func (srv *statsService) ExportCSV(w io.Writer) error {
	if _, err := w.Write([]byte("\uFEFF")); err != nil {
		return errors.Wrap(err, "failed to write BOM")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Fecha", "Hora", "ISIN", "Usuario", "ID Usuario"}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	roster := entity.Roster(srv.roster.GetUsers())
	for _, entry := range srv.entries.GetEntries() {
		name := deletedUserName
		if user := roster.FindByID(entry.UserID); user != nil {
			name = user.Name
		}

		at := entry.Time()
		record := []string{
			at.Format("02/01/2006"),
			at.Format("15:04:05"),
			entry.ISIN,
			name,
			entry.UserID,
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV record")
		}
	}
	writer.Flush()

	return errors.Wrap(writer.Error(), "failed to flush CSV")
}

// GenerateInsight produces the motivational period summary. Transport
// failures and a missing API key degrade to canned messages so the caller
// path never errors.
func (srv *statsService) GenerateInsight(ctx context.Context, tf entity.TimeFrame) string {
	if srv.insight == nil {
		return insightNoAPIKey
	}

	all := srv.entries.GetEntries()
	contributors := make(map[string]struct{})
	for _, e := range all {
		contributors[e.UserID] = struct{}{}
	}

	input := service.ReportInput{
		Period:             tf,
		PeriodTotal:        len(srv.filtered(tf)),
		HistoricTotal:      len(all),
		ActiveContributors: len(contributors),
		RosterSize:         len(srv.roster.GetUsers()),
	}
	if board := srv.Leaderboard(tf); len(board) > 0 {
		input.TopUser = board[0].User
	}

	text, err := srv.insight.GenerateAnalysis(ctx, input)
	if err != nil {
		srv.logger.Warn("Insight generation failed", slog.Any("error", err))

		return insightFailed
	}

	return text
}

// shortSpanishDate renders a YYYY-MM-DD day as the chart label, e.g. "3 sep".
func shortSpanishDate(dateStr string) string {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}

	return fmt.Sprintf("%d %s", day.Day(), spanishMonths[int(day.Month())-1])
}
