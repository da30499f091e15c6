package journal

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Journal is an append-only log of prediction attempts. It is never used to
// restore a session's series.
type Journal struct {
	db     *gorm.DB
	Logger *zap.Logger
}

type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	SessionID  string `gorm:"index"`
	Input      string
	X          sql.NullFloat64
	Prediction sql.NullFloat64
	Error      string
	LatencyMs  int64
}

// Succeeded reports whether the attempt produced a point.
func (e Entry) Succeeded() bool {
	return e.Error == "" && e.Prediction.Valid
}

func NewJournal(dbFilePath string) (_ *Journal, err error) {
	// - busy_timeout(5000): wait on a locked file instead of failing
	// - synchronous(1): NORMAL mode for durability/performance balance
	connectionString := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=synchronous(1)", dbFilePath)

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening journal database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	defer closeOnError(sqlDB, &err)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	// SQLite serializes writes anyway, so multiple connections add overhead
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	return &Journal{
		db:     db,
		Logger: zap.NewNop(),
	}, nil
}

func closeOnError(sqlDB *sql.DB, err *error) {
	if *err != nil {
		_ = sqlDB.Close()
	}
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (j *Journal) Record(entry Entry) error {
	result := j.db.Create(&entry)
	if result.Error != nil {
		j.Logger.Warn("failed to record journal entry", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	result := j.db.Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (j *Journal) Count() (int64, error) {
	var count int64
	result := j.db.Model(&Entry{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (j *Journal) Reset() error {
	result := j.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{})
	return result.Error
}
