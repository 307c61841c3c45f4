package service

import (
	"context"

	"ibspot/internal/domain/entity"
)

// ReportInput carries the metrics an AI-generated summary is built from.
type ReportInput struct {
	Period             entity.TimeFrame
	PeriodTotal        int          // Entries registered in the selected period.
	TopUser            *entity.User // Most productive user of the period, nil if none.
	HistoricTotal      int          // Entries registered since the beginning.
	ActiveContributors int          // Distinct users that ever registered an entry.
	RosterSize         int
}

// InsightService produces a short motivational analysis text from report
// metrics. It is a stateless external request; implementations return an
// error on transport failure and callers degrade to a canned message.
type InsightService interface {
	GenerateAnalysis(ctx context.Context, input ReportInput) (string, error)
}
