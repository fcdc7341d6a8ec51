package database

import (
	"fmt"
	"time"

	"github.com/medicore/medicore/internal/config"
	"github.com/medicore/medicore/internal/domain"
	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/domain/template"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&dictionary.Entry{},
		&template.Category{},
		&template.Definition{},
		&template.EntryLink{},
		&patient.Identity{},
		&casefile.Case{},
		&casefile.Image{},
		&archive.Archive{},
		&archive.CaseLink{},
		&measurement.Measurement{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	createIndexes(db, log)

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createIndexes is best-effort: a failed index leaves the schema usable, so
// failures are logged rather than aborting startup.
func createIndexes(db *gorm.DB, log *zap.Logger) {
	indexes := []struct {
		name  string
		query string
	}{
		// Identity search is substring on name or national ID.
		{
			name:  "idx_identity_name_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_identity_name_trgm ON identity USING gin (name gin_trgm_ops)`,
		},
		// Reporting reads slice the fact table by case then timestamp.
		{
			name:  "idx_data_table_case_time",
			query: `CREATE INDEX IF NOT EXISTS idx_data_table_case_time ON data_table (case_id, check_time)`,
		},
		{
			name:  "idx_data_table_entry",
			query: `CREATE INDEX IF NOT EXISTS idx_data_table_entry ON data_table (dictionary_id, case_id)`,
		},
		// The merged-patient window query orders cases per identity by id.
		{
			name:  "idx_case_identity_latest",
			query: `CREATE INDEX IF NOT EXISTS idx_case_identity_latest ON "case" (identity_id, id DESC)`,
		},
	}

	// The trigram index needs pg_trgm.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err != nil {
		log.Warn("creating pg_trgm extension failed", zap.Error(err))
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Warn("creating index failed", zap.String("index", idx.name), zap.Error(err))
		}
	}
}
