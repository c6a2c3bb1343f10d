package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nchua/liftquest/internal/sqlite"
)

const missionColumns = `id, user_id, training_split, week_start, week_end, status,
	xp_reward, xp_earned, weekly_target, coaching_message, accepted_at, completed_at, declined_at`

// sqliteMissionRepository handles database operations for weekly missions
// and their goals, workouts and prescriptions.
type sqliteMissionRepository struct {
	baseRepository
}

func newSQLiteMissionRepository(db *sqlite.Database, logger *slog.Logger) *sqliteMissionRepository {
	return &sqliteMissionRepository{baseRepository: newBaseRepository(db, logger)}
}

// querier is satisfied by both *sql.DB and *sql.Tx so the aggregate loaders
// can run inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanMission(row goalScanner) (Mission, error) {
	var (
		mission      Mission
		weekStartStr string
		weekEndStr   string
		acceptedStr  sql.NullString
		completedStr sql.NullString
		declinedStr  sql.NullString
	)
	err := row.Scan(
		&mission.ID,
		&mission.UserID,
		&mission.TrainingSplit,
		&weekStartStr,
		&weekEndStr,
		&mission.Status,
		&mission.XPReward,
		&mission.XPEarned,
		&mission.WeeklyTarget,
		&mission.CoachingMessage,
		&acceptedStr,
		&completedStr,
		&declinedStr,
	)
	if err != nil {
		return Mission{}, err
	}

	if mission.WeekStart, err = parseDate(weekStartStr); err != nil {
		return Mission{}, fmt.Errorf("parse mission week start: %w", err)
	}
	if mission.WeekEnd, err = parseDate(weekEndStr); err != nil {
		return Mission{}, fmt.Errorf("parse mission week end: %w", err)
	}
	for _, pair := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{acceptedStr, &mission.AcceptedAt},
		{completedStr, &mission.CompletedAt},
		{declinedStr, &mission.DeclinedAt},
	} {
		if !pair.src.Valid {
			continue
		}
		t, parseErr := parseTimestamp(pair.src.String)
		if parseErr != nil {
			return Mission{}, fmt.Errorf("parse mission timestamp: %w", parseErr)
		}
		*pair.dst = &t
	}
	return mission, nil
}

// loadMissionAggregate fills in the mission's goals, workouts and
// prescriptions.
func loadMissionAggregate(ctx context.Context, q querier, mission *Mission) (err error) {
	goalRows, err := q.QueryContext(ctx, `
		SELECT id, mission_id, goal_id, workouts_completed, is_satisfied
		FROM mission_goals WHERE mission_id = ? ORDER BY id`, mission.ID)
	if err != nil {
		return fmt.Errorf("query mission goals: %w", err)
	}
	defer func() {
		if closeErr := goalRows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	mission.Goals = nil
	for goalRows.Next() {
		var mg MissionGoal
		if err = goalRows.Scan(&mg.ID, &mg.MissionID, &mg.GoalID, &mg.WorkoutsCompleted, &mg.IsSatisfied); err != nil {
			return fmt.Errorf("scan mission goal row: %w", err)
		}
		mission.Goals = append(mission.Goals, mg)
	}
	if err = goalRows.Err(); err != nil {
		return fmt.Errorf("iterate mission goal rows: %w", err)
	}

	if mission.Workouts, err = loadMissionWorkouts(ctx, q, mission.ID); err != nil {
		return err
	}
	return nil
}

func loadMissionWorkouts(ctx context.Context, q querier, missionID int64) (_ []MissionWorkout, err error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, mission_id, day_number, focus, primary_lift, status,
			completed_workout_id, completed_at, completion_notes
		FROM mission_workouts WHERE mission_id = ? ORDER BY day_number`, missionID)
	if err != nil {
		return nil, fmt.Errorf("query mission workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var workouts []MissionWorkout
	for rows.Next() {
		var (
			workout      MissionWorkout
			completedStr sql.NullString
		)
		err = rows.Scan(&workout.ID, &workout.MissionID, &workout.DayNumber, &workout.Focus,
			&workout.PrimaryLift, &workout.Status, &workout.CompletedWorkoutID,
			&completedStr, &workout.CompletionNotes)
		if err != nil {
			return nil, fmt.Errorf("scan mission workout row: %w", err)
		}
		if completedStr.Valid {
			completedAt, parseErr := parseTimestamp(completedStr.String)
			if parseErr != nil {
				return nil, fmt.Errorf("parse workout completed at: %w", parseErr)
			}
			workout.CompletedAt = &completedAt
		}
		workouts = append(workouts, workout)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mission workout rows: %w", err)
	}

	for i := range workouts {
		if workouts[i].Prescriptions, err = loadPrescriptions(ctx, q, workouts[i].ID); err != nil {
			return nil, err
		}
	}
	return workouts, nil
}

func loadPrescriptions(ctx context.Context, q querier, missionWorkoutID int64) (_ []Prescription, err error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, mission_workout_id, exercise_id, order_index, sets, reps, weight, weight_unit, notes
		FROM exercise_prescriptions WHERE mission_workout_id = ? ORDER BY order_index`, missionWorkoutID)
	if err != nil {
		return nil, fmt.Errorf("query prescriptions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var prescriptions []Prescription
	for rows.Next() {
		var p Prescription
		err = rows.Scan(&p.ID, &p.MissionWorkoutID, &p.ExerciseID, &p.OrderIndex,
			&p.Sets, &p.Reps, &p.Weight, &p.WeightUnit, &p.Notes)
		if err != nil {
			return nil, fmt.Errorf("scan prescription row: %w", err)
		}
		prescriptions = append(prescriptions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prescription rows: %w", err)
	}
	return prescriptions, nil
}

// GetByWeek retrieves the user's mission for the given week start.
func (r *sqliteMissionRepository) GetByWeek(ctx context.Context, userID int64, weekStart time.Time) (Mission, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM weekly_missions WHERE user_id = ? AND week_start = ?`,
		userID, formatDate(weekStart))
	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mission{}, ErrNotFound
	}
	if err != nil {
		return Mission{}, fmt.Errorf("query mission: %w", err)
	}
	if err = loadMissionAggregate(ctx, r.db.ReadOnly, &mission); err != nil {
		return Mission{}, err
	}
	return mission, nil
}

// Get retrieves a mission owned by the user.
func (r *sqliteMissionRepository) Get(ctx context.Context, userID, missionID int64) (Mission, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM weekly_missions WHERE id = ? AND user_id = ?`,
		missionID, userID)
	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mission{}, ErrNotFound
	}
	if err != nil {
		return Mission{}, fmt.Errorf("query mission: %w", err)
	}
	if err = loadMissionAggregate(ctx, r.db.ReadOnly, &mission); err != nil {
		return Mission{}, err
	}
	return mission, nil
}

// Create inserts the mission with its goal links and planned days in one
// transaction and returns the stored aggregate.
func (r *sqliteMissionRepository) Create(
	ctx context.Context,
	mission Mission,
	goalIDs []int64,
	days []dayTemplate,
) (_ Mission, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Mission{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO weekly_missions (user_id, training_split, week_start, week_end,
			status, xp_reward, weekly_target, coaching_message)
		VALUES (?, ?, ?, ?, 'offered', ?, ?, ?)`,
		mission.UserID, mission.TrainingSplit, formatDate(mission.WeekStart),
		formatDate(mission.WeekEnd), mission.XPReward, mission.WeeklyTarget, mission.CoachingMessage)
	if err != nil {
		return Mission{}, fmt.Errorf("insert mission: %w", err)
	}
	if mission.ID, err = result.LastInsertId(); err != nil {
		return Mission{}, fmt.Errorf("mission insert id: %w", err)
	}

	for _, goalID := range goalIDs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO mission_goals (mission_id, goal_id) VALUES (?, ?)`,
			mission.ID, goalID); err != nil {
			return Mission{}, fmt.Errorf("insert mission goal: %w", err)
		}
	}

	for _, day := range days {
		if err = insertMissionWorkout(ctx, tx, mission.ID, day); err != nil {
			return Mission{}, err
		}
	}

	if err = loadMissionAggregate(ctx, tx, &mission); err != nil {
		return Mission{}, err
	}
	mission.Status = MissionStatusOffered

	if err = tx.Commit(); err != nil {
		return Mission{}, fmt.Errorf("commit transaction: %w", err)
	}
	return mission, nil
}

func insertMissionWorkout(ctx context.Context, tx *sql.Tx, missionID int64, day dayTemplate) error {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO mission_workouts (mission_id, day_number, focus, primary_lift)
		VALUES (?, ?, ?, ?)`,
		missionID, day.dayNumber, day.focus, day.primaryLift)
	if err != nil {
		return fmt.Errorf("insert mission workout: %w", err)
	}
	workoutID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("mission workout insert id: %w", err)
	}
	return insertPrescriptions(ctx, tx, workoutID, day.prescriptions)
}

func insertPrescriptions(ctx context.Context, tx *sql.Tx, missionWorkoutID int64, prescriptions []Prescription) error {
	for _, p := range prescriptions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exercise_prescriptions (mission_workout_id, exercise_id, order_index,
				sets, reps, weight, weight_unit, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			missionWorkoutID, p.ExerciseID, p.OrderIndex, p.Sets, p.Reps, p.Weight, p.WeightUnit, p.Notes)
		if err != nil {
			return fmt.Errorf("insert prescription: %w", err)
		}
	}
	return nil
}

// Accept transitions an offered mission to accepted. Missions whose week has
// passed are marked expired and reported as such. A user can hold only one
// accepted mission at a time.
func (r *sqliteMissionRepository) Accept(ctx context.Context, userID, missionID int64, now time.Time) (Mission, error) {
	return r.transition(ctx, userID, missionID, now, func(tx *sql.Tx, mission *Mission) error {
		if mission.Status != MissionStatusOffered {
			return ErrInvalidTransition
		}

		// Settle stale weeks first so an unfinished old mission cannot
		// block the accept.
		if _, err := tx.ExecContext(ctx, expireStaleQuery, userID, formatDate(now)); err != nil {
			return fmt.Errorf("expire stale missions: %w", err)
		}

		var acceptedCount int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM weekly_missions
			WHERE user_id = ? AND status = 'accepted' AND id != ?`,
			userID, mission.ID).Scan(&acceptedCount)
		if err != nil {
			return fmt.Errorf("count accepted missions: %w", err)
		}
		if acceptedCount > 0 {
			return ErrInvalidTransition
		}

		mission.Status = MissionStatusAccepted
		acceptedAt := now.UTC()
		mission.AcceptedAt = &acceptedAt
		return nil
	})
}

// Decline transitions an offered mission to declined.
func (r *sqliteMissionRepository) Decline(ctx context.Context, userID, missionID int64, now time.Time) (Mission, error) {
	return r.transition(ctx, userID, missionID, now, func(_ *sql.Tx, mission *Mission) error {
		if mission.Status != MissionStatusOffered {
			return ErrInvalidTransition
		}
		mission.Status = MissionStatusDeclined
		declinedAt := now.UTC()
		mission.DeclinedAt = &declinedAt
		return nil
	})
}

// expireStaleQuery marks every non-terminal mission whose week has fully
// passed as expired. Week ends are inclusive, so the comparison is strict.
const expireStaleQuery = `
	UPDATE weekly_missions SET status = 'expired'
	WHERE user_id = ? AND status IN ('offered', 'accepted') AND week_end < ?`

// ExpireStale settles every mission of the user whose week has passed while
// still in a non-terminal state.
func (r *sqliteMissionRepository) ExpireStale(ctx context.Context, userID int64, now time.Time) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, expireStaleQuery, userID, formatDate(now)); err != nil {
		return fmt.Errorf("expire stale missions: %w", err)
	}
	return nil
}

// transition loads the mission, applies fn and persists the scalar mission
// row in one transaction. Expiry is checked before fn runs so stale offered
// and accepted missions settle lazily.
func (r *sqliteMissionRepository) transition(
	ctx context.Context,
	userID, missionID int64,
	now time.Time,
	fn func(tx *sql.Tx, mission *Mission) error,
) (_ Mission, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Mission{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	row := tx.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM weekly_missions WHERE id = ? AND user_id = ?`,
		missionID, userID)
	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mission{}, ErrNotFound
	}
	if err != nil {
		return Mission{}, fmt.Errorf("query mission: %w", err)
	}

	if !mission.Status.terminal() && formatDate(now) > formatDate(mission.WeekEnd) {
		mission.Status = MissionStatusExpired
		if err = persistMission(ctx, tx, mission); err != nil {
			return Mission{}, err
		}
		if err = tx.Commit(); err != nil {
			return Mission{}, fmt.Errorf("commit transaction: %w", err)
		}
		return mission, ErrMissionExpired
	}

	if err = fn(tx, &mission); err != nil {
		return Mission{}, err
	}
	if err = persistMission(ctx, tx, mission); err != nil {
		return Mission{}, err
	}
	if err = loadMissionAggregate(ctx, tx, &mission); err != nil {
		return Mission{}, err
	}

	if err = tx.Commit(); err != nil {
		return Mission{}, fmt.Errorf("commit transaction: %w", err)
	}
	return mission, nil
}

func persistMission(ctx context.Context, tx *sql.Tx, mission Mission) error {
	var acceptedStr, completedStr, declinedStr *string
	for _, pair := range []struct {
		src *time.Time
		dst **string
	}{
		{mission.AcceptedAt, &acceptedStr},
		{mission.CompletedAt, &completedStr},
		{mission.DeclinedAt, &declinedStr},
	} {
		if pair.src != nil {
			s := formatTimestamp(*pair.src)
			*pair.dst = &s
		}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE weekly_missions
		SET training_split = ?, status = ?, xp_reward = ?, xp_earned = ?,
			weekly_target = ?, coaching_message = ?,
			accepted_at = ?, completed_at = ?, declined_at = ?
		WHERE id = ?`,
		mission.TrainingSplit, mission.Status, mission.XPReward, mission.XPEarned,
		mission.WeeklyTarget, mission.CoachingMessage,
		acceptedStr, completedStr, declinedStr, mission.ID)
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}
	return nil
}

// Backfill replaces the mission's plan in one transaction: split, reward and
// coaching copy on the mission row, the goal links and every planned day's
// prescriptions. Workout rows are reused by day number so their ids and
// statuses survive. Callers only invoke this before any day is completed.
func (r *sqliteMissionRepository) Backfill(
	ctx context.Context,
	mission Mission,
	goalIDs []int64,
	days []dayTemplate,
) (_ Mission, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Mission{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	if err = persistMission(ctx, tx, mission); err != nil {
		return Mission{}, err
	}

	// Reconcile goal links. Dropping stale links is safe because no workout
	// has been credited yet.
	placeholderArgs := []any{mission.ID}
	placeholders := ""
	for _, goalID := range goalIDs {
		placeholders += "?,"
		placeholderArgs = append(placeholderArgs, goalID)
	}
	if len(goalIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM mission_goals WHERE mission_id = ? AND goal_id NOT IN (`+
			placeholders[:len(placeholders)-1]+`)`, placeholderArgs...)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM mission_goals WHERE mission_id = ?`, mission.ID)
	}
	if err != nil {
		return Mission{}, fmt.Errorf("delete stale mission goals: %w", err)
	}
	for _, goalID := range goalIDs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO mission_goals (mission_id, goal_id) VALUES (?, ?)
			ON CONFLICT (mission_id, goal_id) DO NOTHING`, mission.ID, goalID); err != nil {
			return Mission{}, fmt.Errorf("insert mission goal: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM mission_workouts WHERE mission_id = ? AND day_number > ?`,
		mission.ID, len(days)); err != nil {
		return Mission{}, fmt.Errorf("delete stale mission workouts: %w", err)
	}

	for _, day := range days {
		var workoutID int64
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM mission_workouts WHERE mission_id = ? AND day_number = ?`,
			mission.ID, day.dayNumber).Scan(&workoutID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err = insertMissionWorkout(ctx, tx, mission.ID, day); err != nil {
				return Mission{}, err
			}
			continue
		case err != nil:
			return Mission{}, fmt.Errorf("query mission workout: %w", err)
		}

		if _, err = tx.ExecContext(ctx, `
			UPDATE mission_workouts SET focus = ?, primary_lift = ? WHERE id = ?`,
			day.focus, day.primaryLift, workoutID); err != nil {
			return Mission{}, fmt.Errorf("update mission workout: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM exercise_prescriptions WHERE mission_workout_id = ?`, workoutID); err != nil {
			return Mission{}, fmt.Errorf("delete stale prescriptions: %w", err)
		}
		if err = insertPrescriptions(ctx, tx, workoutID, day.prescriptions); err != nil {
			return Mission{}, err
		}
	}

	if err = loadMissionAggregate(ctx, tx, &mission); err != nil {
		return Mission{}, err
	}

	if err = tx.Commit(); err != nil {
		return Mission{}, fmt.Errorf("commit transaction: %w", err)
	}
	return mission, nil
}

// CreditWorkout marks the mission's earliest pending day completed by the
// logged session, credits the matched goals and settles the mission when the
// last day finishes. Everything happens in one transaction. The boolean
// reports whether a pending day existed; the mission pointer is non-nil only
// when this credit completed the mission.
func (r *sqliteMissionRepository) CreditWorkout(
	ctx context.Context,
	missionID int64,
	sessionID int64,
	creditedGoalIDs []int64,
	now time.Time,
) (_ MissionWorkout, _ bool, _ *Mission, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return MissionWorkout{}, false, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	var workout MissionWorkout
	err = tx.QueryRowContext(ctx, `
		SELECT id, mission_id, day_number, focus, primary_lift
		FROM mission_workouts
		WHERE mission_id = ? AND status = 'pending'
		ORDER BY day_number LIMIT 1`, missionID).
		Scan(&workout.ID, &workout.MissionID, &workout.DayNumber, &workout.Focus, &workout.PrimaryLift)
	if errors.Is(err, sql.ErrNoRows) {
		return MissionWorkout{}, false, nil, nil
	}
	if err != nil {
		return MissionWorkout{}, false, nil, fmt.Errorf("query pending mission workout: %w", err)
	}

	completedAt := now.UTC()
	if _, err = tx.ExecContext(ctx, `
		UPDATE mission_workouts
		SET status = 'completed', completed_workout_id = ?, completed_at = ?
		WHERE id = ?`,
		sessionID, formatTimestamp(completedAt), workout.ID); err != nil {
		return MissionWorkout{}, false, nil, fmt.Errorf("complete mission workout: %w", err)
	}
	workout.Status = WorkoutStatusCompleted
	workout.CompletedWorkoutID = &sessionID
	workout.CompletedAt = &completedAt

	for _, goalID := range creditedGoalIDs {
		if _, err = tx.ExecContext(ctx, `
			UPDATE mission_goals
			SET workouts_completed = workouts_completed + 1,
				is_satisfied = CASE WHEN workouts_completed + 1 >= 2 THEN 1 ELSE is_satisfied END
			WHERE mission_id = ? AND goal_id = ?`, missionID, goalID); err != nil {
			return MissionWorkout{}, false, nil, fmt.Errorf("credit mission goal: %w", err)
		}
	}

	var pendingCount int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mission_workouts WHERE mission_id = ? AND status = 'pending'`,
		missionID).Scan(&pendingCount)
	if err != nil {
		return MissionWorkout{}, false, nil, fmt.Errorf("count pending mission workouts: %w", err)
	}

	var completedMission *Mission
	if pendingCount == 0 {
		result, execErr := tx.ExecContext(ctx, `
			UPDATE weekly_missions
			SET status = 'completed', completed_at = ?, xp_earned = xp_reward
			WHERE id = ? AND status = 'accepted'`,
			formatTimestamp(completedAt), missionID)
		if execErr != nil {
			return MissionWorkout{}, false, nil, fmt.Errorf("complete mission: %w", execErr)
		}
		affected, raErr := result.RowsAffected()
		if raErr != nil {
			return MissionWorkout{}, false, nil, fmt.Errorf("get rows affected: %w", raErr)
		}
		if affected > 0 {
			row := tx.QueryRowContext(ctx,
				`SELECT `+missionColumns+` FROM weekly_missions WHERE id = ?`, missionID)
			mission, scanErr := scanMission(row)
			if scanErr != nil {
				return MissionWorkout{}, false, nil, fmt.Errorf("query completed mission: %w", scanErr)
			}
			if err = loadMissionAggregate(ctx, tx, &mission); err != nil {
				return MissionWorkout{}, false, nil, err
			}
			completedMission = &mission
		}
	}

	if err = tx.Commit(); err != nil {
		return MissionWorkout{}, false, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return workout, true, completedMission, nil
}

// FindAcceptedForUser returns the user's accepted mission covering the given
// date, if any.
func (r *sqliteMissionRepository) FindAcceptedForUser(ctx context.Context, userID int64, date time.Time) (Mission, bool, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM weekly_missions
		WHERE user_id = ? AND status = 'accepted' AND week_start <= ? AND week_end >= ?`,
		userID, formatDate(date), formatDate(date))
	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mission{}, false, nil
	}
	if err != nil {
		return Mission{}, false, fmt.Errorf("query accepted mission: %w", err)
	}
	if err = loadMissionAggregate(ctx, r.db.ReadOnly, &mission); err != nil {
		return Mission{}, false, err
	}
	return mission, true, nil
}
