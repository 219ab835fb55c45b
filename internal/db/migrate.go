package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so
// opening an existing store is a no-op.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id           TEXT PRIMARY KEY,
		is_pregnant  INTEGER NOT NULL DEFAULT 0,
		due_date     TEXT,
		birth_date   TEXT,
		preferences  TEXT NOT NULL DEFAULT '{}',
		timezone     TEXT NOT NULL DEFAULT '',
		language     TEXT NOT NULL DEFAULT 'en',
		onboarded    INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_profiles_onboarded ON user_profiles(onboarded)`,

	`CREATE TABLE IF NOT EXISTS activity_templates (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		instructions  TEXT NOT NULL DEFAULT '[]',
		content_type  TEXT NOT NULL
		              CHECK(content_type IN ('stories','songs','movement','educational','sensory','meditation')),
		age_group     TEXT NOT NULL
		              CHECK(age_group IN ('prenatal','newborn','0-3months','3-6months','6-12months')),
		duration_min  INTEGER NOT NULL CHECK(duration_min > 0),
		difficulty    TEXT NOT NULL DEFAULT 'easy'
		              CHECK(difficulty IN ('easy','medium','hard')),
		benefits      TEXT NOT NULL DEFAULT '[]',
		materials     TEXT NOT NULL DEFAULT '[]',
		tips          TEXT NOT NULL DEFAULT '[]',
		image_url     TEXT NOT NULL DEFAULT '',
		audio_url     TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_age_group ON activity_templates(age_group)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_content_type ON activity_templates(content_type)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_duration ON activity_templates(duration_min)`,

	`CREATE TABLE IF NOT EXISTS generated_content (
		id                TEXT PRIMARY KEY,
		template_id       TEXT NOT NULL,
		content_type      TEXT NOT NULL
		                  CHECK(content_type IN ('story','song','meditation','instructions')),
		data              TEXT NOT NULL DEFAULT '{}',
		generated_at      TEXT NOT NULL,
		expires_at        TEXT NOT NULL,
		cultural_context  TEXT NOT NULL DEFAULT '',
		language          TEXT NOT NULL DEFAULT '',
		personalized      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_content_template ON generated_content(template_id)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_content_expiry ON generated_content(expires_at)`,

	`CREATE TABLE IF NOT EXISTS activity_history (
		id            TEXT PRIMARY KEY,
		template_id   TEXT NOT NULL,
		completed_at  TEXT NOT NULL,
		duration_min  INTEGER NOT NULL DEFAULT 0 CHECK(duration_min >= 0),
		engagement    TEXT NOT NULL CHECK(engagement IN ('low','medium','high')),
		notes         TEXT NOT NULL DEFAULT '',
		photos        TEXT NOT NULL DEFAULT '[]',
		rating        INTEGER CHECK(rating IS NULL OR rating BETWEEN 1 AND 5)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_template ON activity_history(template_id)`,
	`CREATE INDEX IF NOT EXISTS idx_history_completed ON activity_history(completed_at)`,

	`CREATE TABLE IF NOT EXISTS weekly_plans (
		id            TEXT PRIMARY KEY,
		week_start    TEXT NOT NULL,
		generated_at  TEXT NOT NULL,
		customized    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_weekly_plans_week_start ON weekly_plans(week_start)`,

	`CREATE TABLE IF NOT EXISTS scheduled_activities (
		id             TEXT PRIMARY KEY,
		template_id    TEXT NOT NULL,
		scheduled_at   TEXT NOT NULL,
		completed      INTEGER NOT NULL DEFAULT 0,
		rescheduled    INTEGER NOT NULL DEFAULT 0,
		reminder_sent  INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,
	`ALTER TABLE scheduled_activities ADD COLUMN plan_id TEXT REFERENCES weekly_plans(id) ON DELETE CASCADE`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_at ON scheduled_activities(scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_completed ON scheduled_activities(completed)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_plan ON scheduled_activities(plan_id)`,

	`CREATE TABLE IF NOT EXISTS sync_queue (
		id           TEXT PRIMARY KEY,
		action       TEXT NOT NULL CHECK(action IN ('create','update','delete')),
		entity_type  TEXT NOT NULL CHECK(entity_type IN ('activity','progress','schedule','profile')),
		payload      TEXT NOT NULL DEFAULT 'null',
		enqueued_at  TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low','medium','high')),
		retry_count  INTEGER NOT NULL DEFAULT 0,
		max_retries  INTEGER NOT NULL DEFAULT 3,
		status       TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','syncing')),
		CHECK(retry_count >= 0 AND retry_count <= max_retries)
	)`,
	`ALTER TABLE sync_queue ADD COLUMN last_error TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_sync_queue_priority ON sync_queue(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_queue_enqueued ON sync_queue(enqueued_at)`,

	`CREATE TABLE IF NOT EXISTS sync_evictions (
		item_id      TEXT PRIMARY KEY,
		action       TEXT NOT NULL,
		entity_type  TEXT NOT NULL,
		payload      TEXT NOT NULL DEFAULT 'null',
		enqueued_at  TEXT NOT NULL,
		priority     TEXT NOT NULL,
		retry_count  INTEGER NOT NULL,
		last_error   TEXT NOT NULL DEFAULT '',
		evicted_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_evictions_evicted ON sync_evictions(evicted_at)`,
}
