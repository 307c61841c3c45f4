package entity

import "time"

// TimeFrame selects the reporting period for leaderboards and charts.
type TimeFrame string

const (
	TimeFrameDay      TimeFrame = "day"
	TimeFrameWeek     TimeFrame = "week"
	TimeFrameMonth    TimeFrame = "month"
	TimeFrameQuarter  TimeFrame = "quarter"
	TimeFrameSemester TimeFrame = "semester"
	TimeFrameYear     TimeFrame = "year"
)

// StartOfPeriod returns the first instant of the period containing now,
// in now's location. Weeks start on Monday.
func (tf TimeFrame) StartOfPeriod(now time.Time) time.Time {
	year, month, day := now.Date()
	loc := now.Location()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	switch tf {
	case TimeFrameDay:
		return midnight
	case TimeFrameWeek:
		weekday := int(midnight.Weekday())
		if weekday == 0 {
			weekday = 7
		}

		return midnight.AddDate(0, 0, -(weekday - 1))
	case TimeFrameMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case TimeFrameQuarter:
		quarter := (int(month) - 1) / 3

		return time.Date(year, time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
	case TimeFrameSemester:
		start := time.January
		if month >= time.July {
			start = time.July
		}

		return time.Date(year, start, 1, 0, 0, 0, 0, loc)
	case TimeFrameYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return midnight
	}
}

// PeriodName returns the Spanish label used in generated reports.
func (tf TimeFrame) PeriodName() string {
	switch tf {
	case TimeFrameDay:
		return "hoy"
	case TimeFrameWeek:
		return "esta semana"
	case TimeFrameMonth:
		return "este mes"
	case TimeFrameQuarter:
		return "este trimestre"
	case TimeFrameSemester:
		return "este semestre"
	case TimeFrameYear:
		return "este año"
	default:
		return ""
	}
}
