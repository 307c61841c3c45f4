package usecase

import (
	"context"
	"io"

	"ibspot/internal/domain/entity"
)

// LeaderboardRow pairs a user with their entry count for a period. User is
// nil when the owning user was deleted from the roster.
type LeaderboardRow struct {
	UserID string
	User   *entity.User
	Count  int
}

// ChartPoint is one bucket of the activity chart.
type ChartPoint struct {
	Label string // Short Spanish date label, e.g. "3 sep".
	Value int
}

// DashboardStats summarizes a reporting period.
type DashboardStats struct {
	Total        int
	TopUser      *entity.User
	TopCount     int
	DailyAverage int // Entries per active day, rounded.
}

// StatsUsecase computes leaderboards, charts and exports over the cached
// data. Pure reads; all methods work offline.
type StatsUsecase interface {
	Dashboard(tf entity.TimeFrame) DashboardStats
	Leaderboard(tf entity.TimeFrame) []LeaderboardRow
	ChartData(tf entity.TimeFrame) []ChartPoint

	// ExportCSV writes the full history as UTF-8 CSV (with BOM) to w.
	ExportCSV(w io.Writer) error

	// GenerateInsight returns a short motivational summary for the period.
	// Failures degrade to a canned message; this never returns an error to
	// keep the UI path simple.
	GenerateInsight(ctx context.Context, tf entity.TimeFrame) string
}
