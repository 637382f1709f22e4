package projections

import (
	"context"
	"time"

	"golang.org/x/text/message"
)

// Analytics thresholds, in percent.
const (
	lowAverageThreshold      = 70
	highCancellationRate     = 20
	lowPerformerThreshold    = 60
	highPerformerThreshold   = 90
	seasonTrendThreshold     = 10
	seasonTrendWindow        = 3
	seasonTrendMinimumPoints = 2
)

// CoachAnalyticsQuery carries input for QueryCoachAnalytics.
type CoachAnalyticsQuery struct {
	CategoryID string
	SeasonID   string
	Days       int              // trend window; 0 uses DefaultTrendDays
	Now        time.Time        // optional: if zero, time.Now() is used
	Printer    *message.Printer // optional: English when nil
}

// CoachAnalytics combines the season statistics with derived insights.
type CoachAnalytics struct {
	OverallStats      SessionStats            `json:"overall_stats"`
	MemberPerformance []MemberAttendanceStats `json:"member_performance"`
	AttendanceTrends  []AttendanceTrendPoint  `json:"attendance_trends"`
	Insights          []string                `json:"insights"`
	Recommendations   []string                `json:"recommendations"`
}

// QueryCoachAnalytics builds the coach dashboard for a category and season.
// PRE: query.CategoryID and query.SeasonID are set
// POST: Insights and Recommendations are rendered with query.Printer and never nil
func QueryCoachAnalytics(ctx context.Context, query CoachAnalyticsQuery, deps StatsDeps) (CoachAnalytics, error) {
	overall, err := QuerySessionStats(ctx, SessionStatsQuery{CategoryID: query.CategoryID, SeasonID: query.SeasonID}, deps)
	if err != nil {
		return CoachAnalytics{}, err
	}
	members, err := QueryMemberAttendanceStats(ctx, MemberStatsQuery{CategoryID: query.CategoryID, SeasonID: query.SeasonID}, deps)
	if err != nil {
		return CoachAnalytics{}, err
	}
	trends, err := QueryAttendanceTrends(ctx, AttendanceTrendsQuery{
		CategoryID: query.CategoryID,
		SeasonID:   query.SeasonID,
		Days:       query.Days,
		Now:        query.Now,
	}, deps)
	if err != nil {
		return CoachAnalytics{}, err
	}

	p := query.Printer
	if p == nil {
		p = NewPrinter()
	}
	result := CoachAnalytics{
		OverallStats:      overall,
		MemberPerformance: members,
		AttendanceTrends:  trends,
		Insights:          []string{},
		Recommendations:   []string{},
	}
	add := func(insight, recommendation string, args ...any) {
		result.Insights = append(result.Insights, p.Sprintf(insight, args...))
		if recommendation != "" {
			result.Recommendations = append(result.Recommendations, p.Sprintf(recommendation))
		}
	}

	if overall.AverageAttendancePercentage < lowAverageThreshold {
		add(msgLowAverage, msgLowAverageRec)
	}
	if overall.CancellationRate > highCancellationRate {
		add(msgHighCancellation, msgHighCancelRec)
	}

	low, high := 0, 0
	for _, m := range members {
		if m.AttendancePercentage < lowPerformerThreshold {
			low++
		}
		if m.AttendancePercentage > highPerformerThreshold {
			high++
		}
	}
	if low > 0 {
		add(msgLowPerformers, msgLowPerformersRec, low)
	}
	if high > 0 {
		add(msgHighPerformers, msgHighPerformersRec, high)
	}

	switch seasonTrend(trends) {
	case TrendImproving:
		add(msgImproving, "")
	case TrendDeclining:
		add(msgDeclining, msgDecliningRec)
	}
	return result, nil
}

// seasonTrend compares the average of the last three points with the three before them.
// Needs at least two points and a non-empty older window.
func seasonTrend(points []AttendanceTrendPoint) string {
	n := len(points)
	if n < seasonTrendMinimumPoints {
		return TrendStable
	}
	recent := points[max(0, n-seasonTrendWindow):]
	older := points[max(0, n-2*seasonTrendWindow):max(0, n-seasonTrendWindow)]
	if len(older) == 0 {
		return TrendStable
	}
	recentAvg, olderAvg := averagePercentage(recent), averagePercentage(older)
	switch {
	case recentAvg > olderAvg+seasonTrendThreshold:
		return TrendImproving
	case recentAvg < olderAvg-seasonTrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func averagePercentage(points []AttendanceTrendPoint) float64 {
	sum := 0
	for _, p := range points {
		sum += p.AttendancePercentage
	}
	return float64(sum) / float64(len(points))
}
