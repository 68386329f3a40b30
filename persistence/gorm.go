// persistence/gorm.go
package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/improvbattle/config"
	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/models"
)

// GormStore 使用GORM的访问记录存储 (PostgreSQL 或 SQLite)
type GormStore struct {
	db *gorm.DB
}

// VisitRecord is the visits table.
type VisitRecord struct {
	ID              uint      `gorm:"primaryKey"`
	SessionID       string    `gorm:"uniqueIndex;not null"`
	PlayerName      string    `gorm:"index;not null"`
	RemoteAddr      string    `gorm:"not null;default:''"`
	StartedAt       time.Time `gorm:"not null"`
	EndedAt         time.Time `gorm:"index;not null"`
	DurationSeconds int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func (VisitRecord) TableName() string {
	return "visits"
}

// zapWriter routes gorm's logger into the process logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Infof(format, args...)
}

// Open connects to the configured driver and migrates the schema. It returns
// a nil Database for driver "none".
func Open(cfg config.DatabaseConfig) (Database, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "none", "":
		return nil, nil
	case "postgres":
		dialector = postgres.Open(cfg.Postgres.DSN())
	case "sqlite":
		if cfg.SQLite.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	store, err := NewGormStore(dialector)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return store, nil
}

// NewGormStore opens the dialector and migrates the visits table.
func NewGormStore(dialector gorm.Dialector) (*GormStore, error) {
	// 配置GORM日志
	gormLogger := gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池, SQLite 只用一个连接以共享内存数据库
	if dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&VisitRecord{}); err != nil {
		return nil, fmt.Errorf("migrate visits: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveVisit inserts a visit. Saving the same session twice keeps the first record.
func (p *GormStore) SaveVisit(ctx context.Context, visit *models.Visit) error {
	if visit == nil || visit.SessionID == "" {
		return ErrInvalidVisit
	}
	record := VisitRecord{
		SessionID:       visit.SessionID,
		PlayerName:      visit.PlayerName,
		RemoteAddr:      visit.RemoteAddr,
		StartedAt:       visit.StartedAt.UTC(),
		EndedAt:         visit.EndedAt.UTC(),
		DurationSeconds: visit.DurationSeconds,
	}

	var existing int64
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&VisitRecord{}).Where("session_id = ?", record.SessionID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		return tx.Create(&record).Error
	})
}

// RecentVisits returns up to limit visits, newest first.
func (p *GormStore) RecentVisits(ctx context.Context, limit int) ([]models.Visit, error) {
	var records []VisitRecord
	err := p.db.WithContext(ctx).
		Order("ended_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	visits := make([]models.Visit, 0, len(records))
	for _, r := range records {
		visits = append(visits, models.Visit{
			SessionID:       r.SessionID,
			PlayerName:      r.PlayerName,
			RemoteAddr:      r.RemoteAddr,
			StartedAt:       r.StartedAt,
			EndedAt:         r.EndedAt,
			DurationSeconds: r.DurationSeconds,
		})
	}
	return visits, nil
}

func (p *GormStore) VisitStats(ctx context.Context) (models.VisitStats, error) {
	var stats models.VisitStats
	db := p.db.WithContext(ctx)
	if err := db.Model(&VisitRecord{}).Count(&stats.TotalVisits).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&VisitRecord{}).Distinct("player_name").Count(&stats.DistinctPlayers).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *GormStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
