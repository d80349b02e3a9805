package db

import (
	"fmt"

	"newt/internal/jobs"
	"newt/internal/like"
	"newt/internal/reading"
	"newt/internal/summary"
	"newt/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&user.User{},
		&user.Follow{},
		&summary.Summary{},
		&like.Like{},
		&reading.Receipt{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_summaries_topic_created on summaries(topic, created_at desc);`,
		`create index if not exists idx_receipts_user_date on receipts(user_id, read_date);`,
		`create index if not exists idx_follows_followee on follows(followee_id);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
