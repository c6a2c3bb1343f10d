package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nchua/liftquest/internal/sqlite"
)

// maxActiveGoals caps how many goals a user can pursue at once.
const maxActiveGoals = 5

const goalColumns = `id, user_id, exercise_id, target_weight, target_reps, weight_unit,
	deadline, starting_e1rm, current_e1rm, status, notes, created_at, achieved_at, abandoned_at`

// sqliteGoalRepository handles database operations for goals and their
// progress snapshots.
type sqliteGoalRepository struct {
	baseRepository
}

func newSQLiteGoalRepository(db *sqlite.Database, logger *slog.Logger) *sqliteGoalRepository {
	return &sqliteGoalRepository{baseRepository: newBaseRepository(db, logger)}
}

type goalScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row goalScanner) (Goal, error) {
	var (
		goal         Goal
		deadlineStr  string
		createdStr   string
		achievedStr  sql.NullString
		abandonedStr sql.NullString
	)
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.ExerciseID,
		&goal.TargetWeight,
		&goal.TargetReps,
		&goal.WeightUnit,
		&deadlineStr,
		&goal.StartingE1RM,
		&goal.CurrentE1RM,
		&goal.Status,
		&goal.Notes,
		&createdStr,
		&achievedStr,
		&abandonedStr,
	)
	if err != nil {
		return Goal{}, err
	}

	if goal.Deadline, err = parseDate(deadlineStr); err != nil {
		return Goal{}, fmt.Errorf("parse goal deadline: %w", err)
	}
	if goal.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return Goal{}, fmt.Errorf("parse goal created at: %w", err)
	}
	if achievedStr.Valid {
		achieved, parseErr := parseTimestamp(achievedStr.String)
		if parseErr != nil {
			return Goal{}, fmt.Errorf("parse goal achieved at: %w", parseErr)
		}
		goal.AchievedAt = &achieved
	}
	if abandonedStr.Valid {
		abandoned, parseErr := parseTimestamp(abandonedStr.String)
		if parseErr != nil {
			return Goal{}, fmt.Errorf("parse goal abandoned at: %w", parseErr)
		}
		goal.AbandonedAt = &abandoned
	}
	return goal, nil
}

// Insert creates a goal, enforcing the active-goal cap in the same
// transaction as the insert.
func (r *sqliteGoalRepository) Insert(ctx context.Context, goal Goal) (_ Goal, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Goal{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	var activeCount int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM goals WHERE user_id = ? AND status = 'active'`,
		goal.UserID).Scan(&activeCount)
	if err != nil {
		return Goal{}, fmt.Errorf("count active goals: %w", err)
	}
	if activeCount >= maxActiveGoals {
		return Goal{}, ErrGoalLimitExceeded
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO goals (user_id, exercise_id, target_weight, target_reps, weight_unit,
			deadline, starting_e1rm, current_e1rm, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)`,
		goal.UserID, goal.ExerciseID, goal.TargetWeight, goal.TargetReps, goal.WeightUnit,
		formatDate(goal.Deadline), goal.StartingE1RM, goal.CurrentE1RM, goal.Notes,
		formatTimestamp(goal.CreatedAt))
	if err != nil {
		return Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	if goal.ID, err = result.LastInsertId(); err != nil {
		return Goal{}, fmt.Errorf("goal insert id: %w", err)
	}
	goal.Status = GoalStatusActive

	if err = tx.Commit(); err != nil {
		return Goal{}, fmt.Errorf("commit transaction: %w", err)
	}
	return goal, nil
}

// Get retrieves a goal owned by the user. Missing and unowned goals are
// indistinguishable.
func (r *sqliteGoalRepository) Get(ctx context.Context, userID, goalID int64) (Goal, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("query goal: %w", err)
	}
	return goal, nil
}

// List retrieves the user's goals, optionally filtered by status.
func (r *sqliteGoalRepository) List(ctx context.Context, userID int64, statuses ...GoalStatus) (_ []Goal, err error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ?`
	args := []any{userID}
	if len(statuses) > 0 {
		placeholders := strings.Repeat("?,", len(statuses))
		query += ` AND status IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var goals []Goal
	for rows.Next() {
		goal, scanErr := scanGoal(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan goal row: %w", scanErr)
		}
		goals = append(goals, goal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal rows: %w", err)
	}
	return goals, nil
}

// Update applies updateFn to the goal inside a transaction and persists the
// result. updateFn errors abort the update and surface unchanged.
func (r *sqliteGoalRepository) Update(
	ctx context.Context,
	userID, goalID int64,
	updateFn func(goal *Goal) error,
) (_ Goal, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Goal{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	row := tx.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("query goal: %w", err)
	}

	if err = updateFn(&goal); err != nil {
		return Goal{}, err
	}

	if err = persistGoal(ctx, tx, goal); err != nil {
		return Goal{}, err
	}

	if err = tx.Commit(); err != nil {
		return Goal{}, fmt.Errorf("commit transaction: %w", err)
	}
	return goal, nil
}

func persistGoal(ctx context.Context, tx *sql.Tx, goal Goal) error {
	var achievedStr, abandonedStr *string
	if goal.AchievedAt != nil {
		s := formatTimestamp(*goal.AchievedAt)
		achievedStr = &s
	}
	if goal.AbandonedAt != nil {
		s := formatTimestamp(*goal.AbandonedAt)
		abandonedStr = &s
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE goals
		SET target_weight = ?, target_reps = ?, weight_unit = ?, deadline = ?,
			starting_e1rm = ?, current_e1rm = ?, status = ?, notes = ?,
			achieved_at = ?, abandoned_at = ?
		WHERE id = ?`,
		goal.TargetWeight, goal.TargetReps, goal.WeightUnit, formatDate(goal.Deadline),
		goal.StartingE1RM, goal.CurrentE1RM, goal.Status, goal.Notes,
		achievedStr, abandonedStr, goal.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// RecordProgress raises the goal's estimated 1RM if e1rm beats the current
// best, appends a snapshot and auto-completes the goal when the target is
// reached. The whole operation is one transaction. The boolean reports
// whether anything was recorded.
func (r *sqliteGoalRepository) RecordProgress(
	ctx context.Context,
	userID, goalID int64,
	e1rm float64,
	weight *float64,
	reps *int,
	workoutID *int64,
	now time.Time,
) (_ Goal, _ bool, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Goal{}, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	row := tx.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, false, ErrNotFound
	}
	if err != nil {
		return Goal{}, false, fmt.Errorf("query goal: %w", err)
	}

	if goal.Status != GoalStatusActive {
		return goal, false, nil
	}
	if goal.CurrentE1RM != nil && e1rm <= *goal.CurrentE1RM {
		return goal, false, nil
	}

	goal.CurrentE1RM = &e1rm
	if e1rm >= targetE1RM(goal) {
		goal.Status = GoalStatusCompleted
		achievedAt := now.UTC()
		goal.AchievedAt = &achievedAt
	}
	if err = persistGoal(ctx, tx, goal); err != nil {
		return Goal{}, false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO goal_progress_snapshots (goal_id, recorded_at, e1rm, weight, reps, workout_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, formatTimestamp(now), e1rm, weight, reps, workoutID)
	if err != nil {
		return Goal{}, false, fmt.Errorf("insert progress snapshot: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Goal{}, false, fmt.Errorf("commit transaction: %w", err)
	}
	return goal, true, nil
}

// ListSnapshots retrieves a goal's progress snapshots in recording order.
func (r *sqliteGoalRepository) ListSnapshots(ctx context.Context, goalID int64) (_ []ProgressSnapshot, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, goal_id, recorded_at, e1rm, weight, reps, workout_id
		FROM goal_progress_snapshots
		WHERE goal_id = ?
		ORDER BY recorded_at, id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("query progress snapshots: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var snapshots []ProgressSnapshot
	for rows.Next() {
		var (
			snapshot    ProgressSnapshot
			recordedStr string
		)
		err = rows.Scan(&snapshot.ID, &snapshot.GoalID, &recordedStr,
			&snapshot.E1RM, &snapshot.Weight, &snapshot.Reps, &snapshot.WorkoutID)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if snapshot.RecordedAt, err = parseTimestamp(recordedStr); err != nil {
			return nil, fmt.Errorf("parse snapshot recorded at: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

// BestE1RMForExercises returns the highest estimated 1RM the user has shown
// on any of the given exercises, or nil when none is known.
func (r *sqliteGoalRepository) BestE1RMForExercises(
	ctx context.Context,
	userID int64,
	exerciseIDs []int64,
) (*float64, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(exerciseIDs))
	args := []any{userID}
	for _, id := range exerciseIDs {
		args = append(args, id)
	}

	var best sql.NullFloat64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT MAX(current_e1rm) FROM goals
		WHERE user_id = ? AND exercise_id IN (`+placeholders[:len(placeholders)-1]+`)`,
		args...).Scan(&best)
	if err != nil {
		return nil, fmt.Errorf("query best estimated 1RM: %w", err)
	}
	if !best.Valid {
		return nil, nil
	}
	return &best.Float64, nil
}
