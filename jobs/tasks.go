// Package jobs defines the background tasks and the Asynq worker that
// runs them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRevenueRollup aggregates trip revenue into revenue_daily.
	TaskRevenueRollup = "revenue:rollup"
	// TaskSessionsSweep removes expired login session rows.
	TaskSessionsSweep = "sessions:sweep"
)

// RevenueRollupPayload selects which day to aggregate. A zero Date means
// yesterday.
type RevenueRollupPayload struct {
	Date string `json:"date,omitempty"`
}

// NewRevenueRollupTask constructs an Asynq task.
func NewRevenueRollupTask(payload RevenueRollupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRevenueRollup, data), nil
}

// NewSessionsSweepTask constructs an Asynq task.
func NewSessionsSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsSweep, nil)
}

// Tasks holds the handlers' shared dependencies.
type Tasks struct {
	DB     *pgxpool.Pool
	Logger *slog.Logger
}

// HandleRevenueRollup recomputes the per-route daily revenue aggregate for
// one day. The upsert makes reruns for the same day harmless.
func (t *Tasks) HandleRevenueRollup(ctx context.Context, task *asynq.Task) error {
	var payload RevenueRollupPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	tag, err := t.DB.Exec(ctx, `
		INSERT INTO revenue_daily (day, route_id, trips, revenue)
		SELECT trip_date, route_id, COUNT(*), COALESCE(SUM(revenue), 0)
		FROM trips
		WHERE trip_date = $1
		GROUP BY trip_date, route_id
		ON CONFLICT (day, route_id) DO UPDATE
		SET trips = EXCLUDED.trips, revenue = EXCLUDED.revenue`, day)
	if err != nil {
		return err
	}
	t.Logger.Info("revenue rollup complete",
		slog.String("day", day.Format("2006-01-02")),
		slog.Int64("routes", tag.RowsAffected()))
	return nil
}

// HandleSessionsSweep deletes login session rows past their expiry.
func (t *Tasks) HandleSessionsSweep(ctx context.Context, _ *asynq.Task) error {
	tag, err := t.DB.Exec(ctx, `DELETE FROM login_sessions WHERE expires_at < now()`)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		t.Logger.Info("swept expired sessions", slog.Int64("removed", tag.RowsAffected()))
	}
	return nil
}
