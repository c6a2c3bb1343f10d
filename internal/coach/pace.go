package coach

import (
	"context"
	"fmt"
	"time"
)

// paceWindow is how far back the slope of recent snapshots is measured.
const paceWindow = 28 * 24 * time.Hour

const (
	aheadRatio   = 1.2
	onTrackRatio = 0.8
)

// PaceReport describes how a goal is trending against its deadline.
type PaceReport struct {
	Status             PaceStatus
	ProgressPercent    float64
	CurrentE1RM        float64
	TargetE1RM         float64
	RequiredWeeklyGain float64
	ActualWeeklyGain   float64
	WeeksRemaining     int
}

// GoalPace reports whether the goal is ahead of, on or behind the pace its
// deadline demands. Completed goals always read as ahead.
func (s *Service) GoalPace(ctx context.Context, userID, goalID int64) (PaceReport, error) {
	goal, err := s.repo.goals.Get(ctx, userID, goalID)
	if err != nil {
		return PaceReport{}, err
	}
	snapshots, err := s.repo.goals.ListSnapshots(ctx, goalID)
	if err != nil {
		return PaceReport{}, fmt.Errorf("list progress snapshots: %w", err)
	}
	return computePace(goal, snapshots, s.now()), nil
}

func computePace(goal Goal, snapshots []ProgressSnapshot, now time.Time) PaceReport {
	target := targetE1RM(goal)

	var starting float64
	switch {
	case goal.StartingE1RM != nil:
		starting = *goal.StartingE1RM
	case len(snapshots) > 0:
		starting = snapshots[0].E1RM
	}
	current := starting
	if goal.CurrentE1RM != nil {
		current = *goal.CurrentE1RM
	}

	report := PaceReport{
		CurrentE1RM:    current,
		TargetE1RM:     target,
		WeeksRemaining: weeksRemaining(goal.Deadline, now),
	}

	if target > starting {
		report.ProgressPercent = (current - starting) / (target - starting) * 100
	} else if current >= target {
		report.ProgressPercent = 100
	}
	if report.ProgressPercent < 0 {
		report.ProgressPercent = 0
	}
	if report.ProgressPercent > 100 {
		report.ProgressPercent = 100
	}

	if goal.Status == GoalStatusCompleted || report.ProgressPercent >= 100 {
		report.Status = PaceAhead
		return report
	}

	report.RequiredWeeklyGain = (target - current) / float64(report.WeeksRemaining)
	report.ActualWeeklyGain = weeklyGain(snapshots, now)

	// Fewer than two snapshots cannot support a slope. Missing data reads
	// as on track, not as slow progress.
	if len(snapshots) < 2 {
		report.Status = PaceOnTrack
		return report
	}

	switch {
	case report.ActualWeeklyGain/report.RequiredWeeklyGain >= aheadRatio:
		report.Status = PaceAhead
	case report.ActualWeeklyGain/report.RequiredWeeklyGain >= onTrackRatio:
		report.Status = PaceOnTrack
	default:
		report.Status = PaceBehind
	}
	return report
}

// weeklyGain measures the observed estimated-1RM slope per week from the
// recent snapshots, falling back to the full history when the recent window
// holds fewer than two. Zero when the history cannot support a slope.
func weeklyGain(snapshots []ProgressSnapshot, now time.Time) float64 {
	windowStart := now.Add(-paceWindow)
	var recent []ProgressSnapshot
	for _, snapshot := range snapshots {
		if !snapshot.RecordedAt.Before(windowStart) {
			recent = append(recent, snapshot)
		}
	}
	if len(recent) < 2 {
		recent = snapshots
	}
	if len(recent) < 2 {
		return 0
	}

	oldest, newest := recent[0], recent[len(recent)-1]
	span := newest.RecordedAt.Sub(oldest.RecordedAt)
	if span < 24*time.Hour {
		return 0
	}
	weeks := span.Hours() / (24 * daysPerWeek)
	return (newest.E1RM - oldest.E1RM) / weeks
}
