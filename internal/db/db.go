package db

import (
	"fmt"

	"feedbackboard/internal/auth"
	"feedbackboard/internal/insight"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn))
}

// Open opens any dialector with the settings the store relies on.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&insight.Insight{}, "Tags", &insight.InsightTag{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}

	// Tables
	if err := gdb.AutoMigrate(
		&insight.Theme{},
		&insight.Tag{},
		&insight.Insight{},
		&insight.InsightTag{},
		&auth.AccessCode{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_insights_created on insights(created_at desc);`,
		`create index if not exists idx_insights_theme_created on insights(theme_id, created_at desc);`,
		`create index if not exists idx_insight_tags_tag on insight_tags(tag_id, insight_id);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
