package rpc

import (
	"net"
	"net/rpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/improvbattle/network"
	"github.com/wfunc/improvbattle/services"
	"github.com/wfunc/improvbattle/session"
)

type nopConn struct{}

func (nopConn) Send(msgID uint16, data []byte) error { return nil }
func (nopConn) Close() error                         { return nil }
func (nopConn) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (nopConn) SetHeartbeat(interval time.Duration)  {}
func (nopConn) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestPresenceService_OverRPC(t *testing.T) {
	sessions := session.NewManager()
	zoe := session.NewSession("s1", "Zoe", nopConn{})
	sessions.Add(zoe)
	alice := session.NewSession("s2", "Alice", nopConn{})
	alice.CreatedAt = zoe.CreatedAt.Add(time.Second)
	sessions.Add(alice)

	srv, err := NewServer("127.0.0.1:0", NewPresenceService(sessions, services.NewVisitService(nil)))
	require.NoError(t, err)
	go srv.Start()
	defer srv.Stop()

	client, err := rpc.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	var online OnlineReply
	require.NoError(t, client.Call("PresenceService.Online", &OnlineArgs{}, &online))
	require.Len(t, online.Players, 2)
	assert.Equal(t, "Zoe", online.Players[0].PlayerName)
	assert.Equal(t, "Alice", online.Players[1].PlayerName)

	var recent RecentVisitsReply
	require.NoError(t, client.Call("PresenceService.RecentVisits", &RecentVisitsArgs{Limit: 5}, &recent))
	assert.Empty(t, recent.Visits)

	var stats StatsReply
	require.NoError(t, client.Call("PresenceService.Stats", &StatsArgs{WithOnline: true}, &stats))
	assert.Equal(t, 2, stats.Online)

	var first OnlineReply
	require.NoError(t, client.Call("PresenceService.Online", &OnlineArgs{Limit: 1}, &first))
	require.Len(t, first.Players, 1)
	assert.Equal(t, "s1", first.Players[0].SessionID)
}

func TestNewServer_RejectsInvalidService(t *testing.T) {
	_, err := NewServer("127.0.0.1:0", struct{}{})
	assert.Error(t, err)
}
