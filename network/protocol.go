package network

// Presence message ids.
const (
	MsgTypeHeartbeat = 1
	MsgTypeLeave     = 102
	MsgTypePresence  = 301
)

// PresenceUpdate is the payload of MsgTypePresence.
type PresenceUpdate struct {
	Online int `json:"online"`
}
