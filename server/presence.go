package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wfunc/improvbattle/broadcast"
	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/network"
	"github.com/wfunc/improvbattle/player"
	"github.com/wfunc/improvbattle/session"
)

const recordTimeout = 5 * time.Second

// trackConnection counts a presence connection unless shutdown has begun.
func (s *GameServer) trackConnection() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	select {
	case <-s.shutdownChan:
		return false
	default:
	}
	s.connections.Add(1)
	return true
}

func (s *GameServer) handleWebSocket(c *gin.Context) {
	// Counted before the upgrade: a hijacked connection is no longer
	// tracked by http.Server.Shutdown.
	if !s.trackConnection() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	defer s.connections.Done()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(s.cfg.Presence.HeartbeatInterval)
	s.handleConnection(wsConn, player.FromQuery(c.Request.URL.Query()))
}

func (s *GameServer) handleConnection(conn network.Connection, name player.Name) {
	sess := session.NewSession(uuid.New().String(), name.String(), conn)
	remote := conn.RemoteAddr().String()
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s, player: %q", remote, sess.GetID(), sess.PlayerName)
	s.broadcastPresence()

	defer s.endSession(sess, remote)

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
		}

		packet, err := conn.ReadPacket()
		if err != nil {
			return
		}
		s.monitor.IncMessagesReceived()

		switch packet.MsgID {
		case network.MsgTypeHeartbeat:
			sess.Touch()
		case network.MsgTypeLeave:
			return
		default:
			logger.Log.Debugf("Unknown message type %d from session %s", packet.MsgID, sess.GetID())
		}
	}
}

// endSession runs once per session when its read loop exits.
func (s *GameServer) endSession(sess *session.Session, remote string) {
	_ = sess.Close()
	if !s.sessionManager.Remove(sess.GetID()) {
		return
	}
	s.monitor.DecOnlinePlayers()
	logger.Log.Infof("Connection closed from %s, session ID: %s", remote, sess.GetID())
	s.broadcastPresence()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if _, err := s.visits.Record(ctx, sess, remote); err != nil {
		logger.Log.Errorf("Failed to record visit for session %s: %v", sess.GetID(), err)
	}
}

func (s *GameServer) broadcastPresence() {
	if err := broadcast.Presence(s.broadcaster, s.sessionManager.Count()); err != nil {
		logger.Log.Warnf("Presence broadcast incomplete: %v", err)
	}
}

// reapIdle closes sessions that have not sent a heartbeat within the idle
// timeout. Their read loops then end the sessions normally.
func (s *GameServer) reapIdle() {
	cutoff := time.Now().Add(-s.cfg.Presence.IdleTimeout)
	for _, sess := range s.sessionManager.IdleSince(cutoff) {
		logger.Log.Infof("Closing idle session %s (player %q)", sess.GetID(), sess.PlayerName)
		_ = sess.Close()
	}
}
