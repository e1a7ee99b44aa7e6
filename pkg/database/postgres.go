package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled connections
	}), &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	// Connection pooling: multiple tills share this pool
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}

// EnsureLedgerAppendOnly installs a trigger that rejects UPDATE and DELETE on
// stock_events, so ledger immutability holds even for code paths that bypass
// the repository. No-op on non-Postgres dialects (in-memory test databases).
func EnsureLedgerAppendOnly(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`
		CREATE OR REPLACE FUNCTION stock_events_immutable() RETURNS trigger AS $$
		BEGIN
			RAISE EXCEPTION 'stock_events is append-only';
		END
		$$ LANGUAGE plpgsql;
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`DROP TRIGGER IF EXISTS stock_events_block_mutation ON stock_events`).Error; err != nil {
		return err
	}
	return db.Exec(`
		CREATE TRIGGER stock_events_block_mutation
		BEFORE UPDATE OR DELETE ON stock_events
		FOR EACH ROW EXECUTE FUNCTION stock_events_immutable();
	`).Error
}
