// File: realtime/registry_test.go
package realtime

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []interface{}
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) sent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistrySendToConnectedUser(t *testing.T) {
	reg := NewConnectionRegistry()
	conn := &fakeConn{}
	reg.Add("notifications", "user-1", conn)

	if !reg.Send("notifications", "user-1", "hello") {
		t.Fatal("Send returned false for a connected user")
	}
	if conn.sent() != 1 {
		t.Fatalf("conn received %d messages, want 1", conn.sent())
	}
}

func TestRegistrySendToAbsentUserIsNoop(t *testing.T) {
	reg := NewConnectionRegistry()

	if reg.Send("notifications", "nobody", "hello") {
		t.Fatal("Send returned true for an absent user")
	}
}

func TestRegistryRemoveStopsDelivery(t *testing.T) {
	reg := NewConnectionRegistry()
	conn := &fakeConn{}
	reg.Add("notifications", "user-1", conn)
	reg.Remove("notifications", "user-1")

	if reg.Send("notifications", "user-1", "hello") {
		t.Fatal("Send returned true after Remove")
	}
	if reg.Connected("notifications", "user-1") {
		t.Fatal("Connected returned true after Remove")
	}
}

func TestRegistryAddReplacesAndClosesOldConn(t *testing.T) {
	reg := NewConnectionRegistry()
	old := &fakeConn{}
	reg.Add("notifications", "user-1", old)

	replacement := &fakeConn{}
	reg.Add("notifications", "user-1", replacement)

	if !old.isClosed() {
		t.Fatal("replaced connection was not closed")
	}
	if !reg.Send("notifications", "user-1", "hello") {
		t.Fatal("Send failed after reconnect")
	}
	if old.sent() != 0 {
		t.Fatal("message delivered to the replaced connection")
	}
	if replacement.sent() != 1 {
		t.Fatalf("replacement received %d messages, want 1", replacement.sent())
	}
}

func TestRegistrySendEvictsOnWriteError(t *testing.T) {
	reg := NewConnectionRegistry()
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	reg.Add("notifications", "user-1", conn)

	if reg.Send("notifications", "user-1", "hello") {
		t.Fatal("Send returned true despite write error")
	}
	if !conn.isClosed() {
		t.Fatal("failed connection was not closed")
	}
	if reg.Connected("notifications", "user-1") {
		t.Fatal("failed connection still registered")
	}
}

func TestRegistryRoomsAreIsolated(t *testing.T) {
	reg := NewConnectionRegistry()
	conn := &fakeConn{}
	reg.Add("room-a", "user-1", conn)

	if reg.Send("room-b", "user-1", "hello") {
		t.Fatal("Send crossed room boundaries")
	}
	if conn.sent() != 0 {
		t.Fatal("message delivered across rooms")
	}
}

// racyConn counts writers inside WriteJSON without any locking of its own,
// so overlapping calls from the registry are observable.
type racyConn struct {
	active     int32
	overlapped int32
}

func (c *racyConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.StoreInt32(&c.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	return nil
}

func (c *racyConn) Close() error { return nil }

func TestRegistrySerializesWritesPerConnection(t *testing.T) {
	reg := NewConnectionRegistry()
	conn := &racyConn{}
	reg.Add("notifications", "user-1", conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Send("notifications", "user-1", "hello")
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlapped) != 0 {
		t.Fatal("registry allowed concurrent WriteJSON calls on one connection")
	}
}

func TestRegistryConcurrentAddRemoveSend(t *testing.T) {
	reg := NewConnectionRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("user-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Add("notifications", userID, &fakeConn{})
			reg.Send("notifications", userID, "hello")
			reg.Remove("notifications", userID)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("user-%d", i)
		if reg.Connected("notifications", userID) {
			t.Fatalf("user %s still registered after Remove", userID)
		}
	}
}
