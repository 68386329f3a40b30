// persistence/interface.go
package persistence

import (
	"context"
	"errors"

	"github.com/wfunc/improvbattle/models"
)

// Database 数据库接口
type Database interface {
	SaveVisit(ctx context.Context, visit *models.Visit) error
	RecentVisits(ctx context.Context, limit int) ([]models.Visit, error)
	VisitStats(ctx context.Context) (models.VisitStats, error)
	Close() error
}

// 错误定义
var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrInvalidVisit  = errors.New("invalid visit")
)
