package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/improvbattle/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	closed bool
}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { m.closed = true; return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, "Zoe", &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	if !manager.Remove(sessionID) {
		t.Fatal("Remove should report the session as present")
	}
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}
	if manager.Remove(sessionID) {
		t.Fatal("Second Remove should report the session as absent")
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_AllOrderedByConnectTime(t *testing.T) {
	manager := NewManager()
	base := time.Now()

	for i, id := range []string{"c", "a", "b"} {
		sess := NewSession(id, id, &MockConnection{})
		sess.CreatedAt = base.Add(time.Duration(i) * time.Second)
		manager.Add(sess)
	}

	all := manager.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(all))
	}
	for i, want := range []string{"c", "a", "b"} {
		if all[i].ID != want {
			t.Errorf("All()[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestManager_IdleSince(t *testing.T) {
	manager := NewManager()

	stale := NewSession("stale", "Old", &MockConnection{})
	stale.lastActive = time.Now().Add(-time.Minute)
	fresh := NewSession("fresh", "New", &MockConnection{})

	manager.Add(stale)
	manager.Add(fresh)

	idle := manager.IdleSince(time.Now().Add(-30 * time.Second))
	if len(idle) != 1 || idle[0].ID != "stale" {
		t.Fatalf("Expected only the stale session, got %v", idle)
	}

	stale.Touch()
	if idle := manager.IdleSince(time.Now().Add(-30 * time.Second)); len(idle) != 0 {
		t.Errorf("Touch should refresh activity, still idle: %d", len(idle))
	}
}

func TestSession_Close(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("test_session", "Zoe", conn)

	if err := sess.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !conn.closed {
		t.Error("Close should close the underlying connection")
	}
}
