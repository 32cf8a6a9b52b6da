package migrations

import (
	"github.com/NeuralTrust/TrustBatch/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250901_create_debounce_buckets",
		Name: "Create debounce_buckets table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS debounce_buckets (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					policy_name      TEXT NOT NULL,
					grouping_key     TEXT NOT NULL,
					member_event_ids TEXT[] NOT NULL DEFAULT '{}',
					timing_kind      TEXT NOT NULL CHECK (timing_kind IN ('delayed', 'scheduled_hour')),
					timing_params    JSONB NOT NULL DEFAULT '{}'::jsonb,
					fire_at          TIMESTAMPTZ NOT NULL,
					deadline_at      TIMESTAMPTZ,
					dispatched       BOOLEAN NOT NULL DEFAULT false,
					dispatched_at    TIMESTAMPTZ,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (fire_at >= created_at)
				);
			`).Error; err != nil {
				return err
			}

			// At most one active bucket per key
			if err := db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_debounce_buckets_active_key
				ON debounce_buckets (policy_name, grouping_key)
				WHERE dispatched = false;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_debounce_buckets_due
				ON debounce_buckets (policy_name, fire_at)
				WHERE dispatched = false;
			`).Error; err != nil {
				return err
			}

			// Used by the retention purge
			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_debounce_buckets_dispatched_at
				ON debounce_buckets (dispatched_at)
				WHERE dispatched = true;
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS debounce_buckets;`).Error
		},
	})
}
