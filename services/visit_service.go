// services/visit_service.go
package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/wfunc/improvbattle/models"
	"github.com/wfunc/improvbattle/persistence"
	"github.com/wfunc/improvbattle/session"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// VisitService turns finished presence sessions into stored visits. A nil
// database keeps only the in-process counters.
type VisitService struct {
	db       persistence.Database
	now      func() time.Time
	recorded atomic.Int64
	longest  atomic.Int64
}

func NewVisitService(db persistence.Database) *VisitService {
	return &VisitService{db: db, now: time.Now}
}

// Record stores the visit for a session that just disconnected.
func (s *VisitService) Record(ctx context.Context, sess *session.Session, remoteAddr string) (*models.Visit, error) {
	ended := s.now()
	visit := &models.Visit{
		SessionID:       sess.ID,
		PlayerName:      sess.PlayerName,
		RemoteAddr:      remoteAddr,
		StartedAt:       sess.CreatedAt,
		EndedAt:         ended,
		DurationSeconds: int64(ended.Sub(sess.CreatedAt).Seconds()),
	}

	s.recorded.Add(1)
	for {
		cur := s.longest.Load()
		if visit.DurationSeconds <= cur || s.longest.CompareAndSwap(cur, visit.DurationSeconds) {
			break
		}
	}

	if s.db == nil {
		return visit, nil
	}
	if err := s.db.SaveVisit(ctx, visit); err != nil {
		return visit, err
	}
	return visit, nil
}

// Recent clamps limit into [1, MaxRecentLimit], using DefaultRecentLimit for <= 0.
func (s *VisitService) Recent(ctx context.Context, limit int) ([]models.Visit, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	if s.db == nil {
		return []models.Visit{}, nil
	}
	return s.db.RecentVisits(ctx, limit)
}

func (s *VisitService) Stats(ctx context.Context) (models.VisitStats, error) {
	if s.db == nil {
		return models.VisitStats{TotalVisits: s.recorded.Load()}, nil
	}
	return s.db.VisitStats(ctx)
}

// Summary describes the visits handled by this process.
type Summary struct {
	Recorded        int64
	LongestSeconds  int64
	PersistenceUsed bool
}

func (s *VisitService) Summary() Summary {
	return Summary{
		Recorded:        s.recorded.Load(),
		LongestSeconds:  s.longest.Load(),
		PersistenceUsed: s.db != nil,
	}
}
