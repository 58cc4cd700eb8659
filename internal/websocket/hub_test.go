package seatws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("closed")
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.written...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHubDeliversOnlyToSubscribersOfTheClass(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	watching := newFakeConn()
	other := newFakeConn()
	watchingClient := newClient(hub, watching, 7)
	otherClient := newClient(hub, other, 8)
	if !hub.Register(watchingClient) || !hub.Register(otherClient) {
		t.Fatalf("expected registration to succeed")
	}
	go watchingClient.WritePump()
	go otherClient.WritePump()

	hub.PublishSeats(models.SeatInventory{ClassID: 7, AvailableSeats: 4, SeatBookings: 6})

	waitFor(t, func() bool { return len(watching.messages()) == 1 })

	var message Message
	if err := json.Unmarshal(watching.messages()[0], &message); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if message.Type != "seats" || message.ClassID != 7 || message.AvailableSeats != 4 || message.SeatBookings != 6 {
		t.Fatalf("unexpected message %+v", message)
	}
	if len(other.messages()) != 0 {
		t.Fatalf("subscriber of another class received an update")
	}
}

func TestHubSkipsOutOfOrderUpdates(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := newFakeConn()
	client := newClient(hub, conn, 3)
	hub.Register(client)
	go client.WritePump()

	hub.PublishSeats(models.SeatInventory{ClassID: 3, AvailableSeats: 3, SeatBookings: 2})
	hub.PublishSeats(models.SeatInventory{ClassID: 3, AvailableSeats: 4, SeatBookings: 1})
	hub.PublishSeats(models.SeatInventory{ClassID: 3, AvailableSeats: 3, SeatBookings: 2})
	hub.PublishSeats(models.SeatInventory{ClassID: 3, AvailableSeats: 2, SeatBookings: 3})

	waitFor(t, func() bool { return len(conn.messages()) == 2 })

	var bookings []int
	for _, raw := range conn.messages() {
		var message Message
		if err := json.Unmarshal(raw, &message); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		bookings = append(bookings, message.SeatBookings)
	}
	if len(bookings) != 2 || bookings[0] != 2 || bookings[1] != 3 {
		t.Fatalf("expected seat bookings [2 3], got %v", bookings)
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := newClient(hub, newFakeConn(), 1)
	fastConn := newFakeConn()
	fast := newClient(hub, fastConn, 1)
	hub.Register(slow)
	hub.Register(fast)
	go fast.WritePump()

	// nobody drains slow.send
	total := cap(slow.send) + 1
	for i := 0; i < total; i++ {
		hub.PublishSeats(models.SeatInventory{ClassID: 1, AvailableSeats: total - i, SeatBookings: i + 1})
		want := i + 1
		waitFor(t, func() bool { return len(fastConn.messages()) == want })
	}

	received := 0
	for range slow.send {
		received++
	}
	if received != cap(slow.send) {
		t.Fatalf("expected %d buffered updates before the drop, got %d", cap(slow.send), received)
	}
}

func TestHubStopsCleanly(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := newFakeConn()
	client := newClient(hub, conn, 3)
	hub.Register(client)
	readDone := make(chan struct{})
	go func() {
		client.ReadPump()
		close(readDone)
	}()

	cancel()
	<-stopped
	if hub.Register(newClient(hub, newFakeConn(), 3)) {
		t.Fatalf("expected registration to fail after shutdown")
	}

	_ = conn.Close()
	select {
	case <-readDone:
	case <-time.After(time.Second):
		t.Fatalf("ReadPump blocked after hub shutdown")
	}
}
