package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// auditRecord is the GORM model backing Event; Timestamp defaults to
// the insert time when left zero.
type auditRecord struct {
	ID uint `gorm:"primaryKey"`
	Event
}

// TableName pins the table name so schema changes to the Event struct
// don't accidentally rename it.
func (auditRecord) TableName() string {
	return "audit_events"
}

// BeforeCreate stamps Timestamp when the caller left it unset.
func (r *auditRecord) BeforeCreate(*gorm.DB) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}

// GORMLog is a GORM-backed Log persisting events to an embedded SQLite
// database, auto-migrating its schema on open.
type GORMLog struct {
	db *gorm.DB
}

// Open creates or opens a GORMLog at dsn (a file path, or ":memory:"
// for an in-process store) and auto-migrates its schema.
func Open(dsn string) (*GORMLog, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.AutoMigrate(&auditRecord{}); err != nil {
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}
	return &GORMLog{db: db}, nil
}

// Append records a single event, stamping its timestamp if unset.
func (l *GORMLog) Append(ctx context.Context, event Event) error {
	rec := auditRecord{Event: event}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// Recent returns the most recently appended events, newest first.
func (l *GORMLog) Recent(ctx context.Context, limit int) ([]Event, error) {
	var recs []auditRecord
	if err := l.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query recent audit events: %w", err)
	}
	events := make([]Event, len(recs))
	for i, r := range recs {
		events[i] = r.Event
	}
	return events, nil
}

// Close releases the underlying database connection.
func (l *GORMLog) Close() error {
	db, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("access underlying audit database: %w", err)
	}
	return db.Close()
}
