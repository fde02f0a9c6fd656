package database

import (
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/course-platform-api/config"
	"github.com/sahilchouksey/course-platform-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open GORM connection. TranslateError turns unique-key violations into
	// gorm.ErrDuplicatedKey, which the handlers map to 409 Conflict.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
		TranslateError:         true,
		PrepareStmt:            true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	// Get underlying *sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init creates the enum types and runs AutoMigrate for all models
func (s *GORMStore) Init() error {
	if err := InitEnums(s.db); err != nil {
		log.Println("Error creating enum types:", err)
		return err
	}

	log.Println("Running GORM AutoMigrate for all models...")
	if err := Migrate(s.db); err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Migrate runs AutoMigrate for every model. Shared with the sqlite test
// stores, so keep it free of postgres-only DDL.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Principals
		&model.Account{},
		&model.UserDetails{},
		&model.Admin{},

		// Catalog
		&model.Course{},
		&model.Video{},
		&model.CourseVideo{},

		// Enrollment
		&model.Enrollment{},

		// Notifications
		&model.Notification{},
	)
}

// InitEnums creates the postgres ENUM types for status/type/role columns.
// A no-op on other dialects (the sqlite test store stores them as text).
func InitEnums(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'account_role') THEN
				CREATE TYPE account_role AS ENUM ('student', 'instructor');
			END IF;
		END $$;

		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'catalog_status') THEN
				CREATE TYPE catalog_status AS ENUM ('draft', 'active', 'rejected');
			END IF;
		END $$;

		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notification_type') THEN
				CREATE TYPE notification_type AS ENUM ('courseApproval', 'studentEnrollment', 'courseDeletion', 'courseRejection', 'videoDeletion');
			END IF;
		END $$;

		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notification_status') THEN
				CREATE TYPE notification_status AS ENUM ('unread', 'read');
			END IF;
		END $$;
	`
	return db.Exec(query).Error
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM DB instance for use in handlers and services
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
