// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"
	"errors"

	"github.com/wfunc/improvbattle/network"
	"github.com/wfunc/improvbattle/session"
)

// 广播接口
type Broadcaster interface {
	BroadcastToAll(msgID uint16, data []byte) error
}

// SessionBroadcaster sends to every session known to the manager.
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{sessionManager: sessionManager}
}

// BroadcastToAll keeps going past failed sends and returns them joined.
func (b *SessionBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	var errs []error
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msgID, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Presence broadcasts the current online count.
func Presence(b Broadcaster, online int) error {
	data, err := json.Marshal(network.PresenceUpdate{Online: online})
	if err != nil {
		return err
	}
	return b.BroadcastToAll(network.MsgTypePresence, data)
}
