package services

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/improvbattle/models"
	"github.com/wfunc/improvbattle/network"
	"github.com/wfunc/improvbattle/session"
)

type nopConn struct{}

func (nopConn) Send(msgID uint16, data []byte) error { return nil }
func (nopConn) Close() error                         { return nil }
func (nopConn) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (nopConn) SetHeartbeat(interval time.Duration)  {}
func (nopConn) ReadPacket() (*network.Packet, error) { return nil, nil }

type fakeDB struct {
	saved    []models.Visit
	limit    int
	saveErr  error
	stats    models.VisitStats
	isClosed bool
}

func (f *fakeDB) SaveVisit(_ context.Context, v *models.Visit) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *v)
	return nil
}

func (f *fakeDB) RecentVisits(_ context.Context, limit int) ([]models.Visit, error) {
	f.limit = limit
	return f.saved, nil
}

func (f *fakeDB) VisitStats(context.Context) (models.VisitStats, error) { return f.stats, nil }
func (f *fakeDB) Close() error                                          { f.isClosed = true; return nil }

func newSession(name string, started time.Time) *session.Session {
	sess := session.NewSession("sess-"+name, name, nopConn{})
	sess.CreatedAt = started
	return sess
}

func TestVisitService_Record(t *testing.T) {
	db := &fakeDB{}
	svc := NewVisitService(db)
	start := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start.Add(90 * time.Second) }

	visit, err := svc.Record(context.Background(), newSession("Zoe", start), "10.0.0.1:1234")
	require.NoError(t, err)

	assert.Equal(t, "Zoe", visit.PlayerName)
	assert.Equal(t, int64(90), visit.DurationSeconds)
	require.Len(t, db.saved, 1)
	assert.Equal(t, "10.0.0.1:1234", db.saved[0].RemoteAddr)
	assert.Equal(t, Summary{Recorded: 1, LongestSeconds: 90, PersistenceUsed: true}, svc.Summary())
}

func TestVisitService_RecordSaveError(t *testing.T) {
	svc := NewVisitService(&fakeDB{saveErr: errors.New("db down")})

	visit, err := svc.Record(context.Background(), newSession("Zoe", time.Now()), "")
	assert.Error(t, err)
	assert.NotNil(t, visit)
	assert.Equal(t, int64(1), svc.Summary().Recorded)
}

func TestVisitService_RecentClampsLimit(t *testing.T) {
	db := &fakeDB{}
	svc := NewVisitService(db)
	ctx := context.Background()

	_, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRecentLimit, db.limit)

	_, err = svc.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxRecentLimit, db.limit)

	_, err = svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, db.limit)
}

func TestVisitService_WithoutDatabase(t *testing.T) {
	svc := NewVisitService(nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, newSession("Zoe", time.Now()), "")
	require.NoError(t, err)

	recent, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVisits)
	assert.False(t, svc.Summary().PersistenceUsed)
}
