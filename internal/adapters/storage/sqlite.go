package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

// Ensure interface compliance
var _ ports.ScanRepository = (*SQLiteAdapter)(nil)

// SQLiteAdapter implements ports.ScanRepository using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// SessionModel is the GORM model for scan sessions.
type SessionModel struct {
	ID          string `gorm:"primaryKey"`
	StartedAt   time.Time
	FinishedAt  time.Time
	ChannelSpec string
	BandSpec    string
	MaxBSSCount int
	Status      string
	Error       string
	ResultCount int

	Results []ResultModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// ResultModel stores one scan result. Seq keeps delivery order.
type ResultModel struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index"`
	Seq       int
	SSID      string
	Band      string
	Channel   int
	Security  string
	MFP       string
	RSSI      int
	BSSID     string
}

// NewSQLiteAdapter initializes the database and migrates schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return &SQLiteAdapter{db: db}, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SessionModel{}, &ResultModel{}); err != nil {
		return err
	}

	// Create Indices for Performance
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON session_models(started_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_results_ssid ON result_models(ssid)")
	return nil
}

// SaveSession saves or updates a session and replaces its results.
func (a *SQLiteAdapter) SaveSession(ctx context.Context, s domain.ScanSession) error {
	model := toModel(s)
	results := model.Results
	model.Results = nil

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", model.ID).Delete(&ResultModel{}).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		return tx.CreateInBatches(results, 100).Error
	})
}

// GetSession returns a session with its results in delivery order.
func (a *SQLiteAdapter) GetSession(ctx context.Context, id string) (*domain.ScanSession, error) {
	var model SessionModel
	err := a.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}
	s := toDomain(model)
	return &s, nil
}

// ListSessions returns the most recent sessions without results.
func (a *SQLiteAdapter) ListSessions(ctx context.Context, limit int) ([]domain.ScanSession, error) {
	var models []SessionModel
	q := a.db.WithContext(ctx).Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ScanSession, 0, len(models))
	for _, m := range models {
		out = append(out, toDomain(m))
	}
	return out, nil
}

// Close closes the database connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
