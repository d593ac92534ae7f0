package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeConn is an in-memory Conn whose reads block until Close.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("connection closed")
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.written))
	copy(out, f.written)
	return out
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	h := NewHub()
	client := NewClient("patient-1", newFakeConn())
	h.Register(client)

	if h.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", h.ClientCount())
	}
	if h.PatientClientCount("patient-1") != 1 {
		t.Fatalf("expected 1 client for patient-1, got %d", h.PatientClientCount("patient-1"))
	}

	h.Broadcast(Event{Type: "gate_state", PatientID: "patient-1", Timestamp: time.Now()})

	select {
	case data := <-client.Send:
		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if evt.Type != "gate_state" {
			t.Errorf("expected gate_state event, got %s", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHub_BroadcastDoesNotCrossPatients(t *testing.T) {
	h := NewHub()
	client := NewClient("patient-1", newFakeConn())
	h.Register(client)

	h.Broadcast(Event{Type: "gate_state", PatientID: "patient-2"})

	select {
	case data := <-client.Send:
		t.Fatalf("unexpected event delivered: %s", data)
	default:
	}
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	h := NewHub()
	client := NewClient("patient-1", newFakeConn())
	h.Register(client)

	h.Unregister(client)
	h.Unregister(client) // must not panic or double-close Send

	if h.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", h.ClientCount())
	}
	if h.PatientClientCount("patient-1") != 0 {
		t.Errorf("expected 0 clients for patient-1, got %d", h.PatientClientCount("patient-1"))
	}
}

func TestHub_ServeClientTeardown(t *testing.T) {
	h := NewHub()
	conn := newFakeConn()
	client := NewClient("patient-1", conn)

	closed := make(chan struct{})
	h.ServeClient(client, func() { close(closed) })

	if h.ClientCount() != 1 {
		t.Fatalf("expected 1 client after ServeClient, got %d", h.ClientCount())
	}

	// Push one event through the write pump.
	h.Broadcast(Event{Type: "gate_state", PatientID: "patient-1"})

	// Dropping the connection must run onClose and unregister the client.
	conn.Close()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for onClose")
	}

	deadline := time.After(time.Second)
	for h.ClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("client was not unregistered after connection close")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	deadline = time.After(time.Second)
	for len(conn.messages()) != 1 {
		select {
		case <-deadline:
			t.Fatalf("expected 1 written message, got %d", len(conn.messages()))
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
