package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
	"github.com/jhoicas/materiales-obra-api/internal/interfaces/ws"
)

// fakeClient registra lo que el hub le hace. Tras release cualquier uso cuenta como
// acceso a una conexión ya devuelta por el handler.
type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
	released bool
	misuse   int
}

func (c *fakeClient) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		c.misuse++
	}
	if c.failing {
		return errors.New("conexión rota")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		c.misuse++
	}
	c.closed = true
	return nil
}

func (c *fakeClient) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
}

func (c *fakeClient) misused() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misuse
}

func (c *fakeClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T, buffer int) (*ws.Hub, context.CancelFunc) {
	t.Helper()
	hub := ws.NewHub(buffer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHub_DifundeMovimientos(t *testing.T) {
	hub, _ := startHub(t, 8)
	a, b := &fakeClient{}, &fakeClient{}
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.MovementCommitted(&entity.Movement{
		ID: 7, ProjectID: 1, MaterialID: 2, UserID: "u-1",
		Type: entity.MovementTypeOUT, Quantity: decimal.RequireFromString("2.5"), Unit: "saco",
	})

	require.Eventually(t, func() bool { return len(a.received()) == 1 && len(b.received()) == 1 }, time.Second, 5*time.Millisecond)

	var ev struct {
		Event string `json:"event"`
		Data  struct {
			ID       int64  `json:"id"`
			Type     string `json:"type"`
			Quantity string `json:"quantity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(a.received()[0], &ev))
	assert.Equal(t, ws.EventMovementCreated, ev.Event)
	assert.EqualValues(t, 7, ev.Data.ID)
	assert.Equal(t, "out", ev.Data.Type)
	assert.Equal(t, "2.5", ev.Data.Quantity)
}

func TestHub_MaterialEliminado(t *testing.T) {
	hub, _ := startHub(t, 8)
	c := &fakeClient{}
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.MaterialRemoved(&entity.Material{ID: 4, ProjectID: 1}, 3)

	require.Eventually(t, func() bool { return len(c.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t,
		`{"event":"material.removed","data":{"materialId":4,"projectId":1,"deletedMovements":3}}`,
		string(c.received()[0]))
}

func TestHub_ClienteRotoSeRetira(t *testing.T) {
	hub, _ := startHub(t, 8)
	broken := &fakeClient{failing: true}
	hub.Register(broken)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(ws.Event{Type: "ping"})

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
}

func TestHub_UnregisterNoCierraLaConexion(t *testing.T) {
	hub, _ := startHub(t, 8)
	c := &fakeClient{}
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)

	assert.Equal(t, 0, hub.ClientCount())
	assert.False(t, c.isClosed(), "el cierre corresponde al handler")
}

func TestHub_ConexionesEntrandoYSaliendoConDifusion(t *testing.T) {
	hub, _ := startHub(t, 64)

	stop := make(chan struct{})
	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		for {
			select {
			case <-stop:
				return
			default:
				hub.Publish(ws.Event{Type: "tick"})
			}
		}
	}()

	const cycles = 200
	clients := make([]*fakeClient, cycles)
	var wg sync.WaitGroup
	for i := 0; i < cycles; i++ {
		c := &fakeClient{}
		clients[i] = c
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Register(c)
			hub.Unregister(c)
			// Igual que el handler: desde aquí la conexión vuelve al pool.
			c.release()
		}()
	}
	wg.Wait()
	close(stop)
	<-publisherDone

	// Un último cliente recibe "fin" cuando el hub ya vació el buffer.
	last := &fakeClient{}
	hub.Register(last)
	require.Eventually(t, func() bool {
		hub.Publish(ws.Event{Type: "fin"})
		for _, m := range last.received() {
			if string(m) == `{"event":"fin","data":null}` {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	for i, c := range clients {
		assert.Zero(t, c.misused(), "cliente %d usado después de Unregister", i)
		assert.False(t, c.isClosed(), "cliente %d cerrado por el hub", i)
	}
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_PublishNoBloqueaConBufferLleno(t *testing.T) {
	// Sin Run nadie consume: el segundo evento se descarta.
	hub := ws.NewHub(1, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		hub.Publish(ws.Event{Type: "a"})
		hub.Publish(ws.Event{Type: "b"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish bloqueó")
	}
	assert.EqualValues(t, 1, hub.Dropped())
}

func TestHub_CancelarCierraClientes(t *testing.T) {
	hub, cancel := startHub(t, 8)
	c := &fakeClient{}
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)

	// Con el hub detenido Register no bloquea y cierra al cliente.
	late := &fakeClient{}
	hub.Register(late)
	assert.True(t, late.isClosed())
	hub.Unregister(late)
}

func TestRequireUpgrade_SinUpgradeDevuelve426(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/movements", ws.RequireUpgrade, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/movements", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
