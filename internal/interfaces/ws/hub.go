package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

var _ inventory.EventPublisher = (*Hub)(nil)

// Tipos de evento del feed.
const (
	EventMovementCreated = "movement.created"
	EventMaterialRemoved = "material.removed"
)

// Client conexión suscrita al feed (*websocket.Conn la implementa).
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event mensaje enviado a los clientes.
type Event struct {
	Type string `json:"event"`
	Data any    `json:"data"`
}

// MaterialRemovedData payload de material.removed.
type MaterialRemovedData struct {
	MaterialID       int64 `json:"materialId"`
	ProjectID        int64 `json:"projectId"`
	MovementsDeleted int64 `json:"deletedMovements"`
}

// Hub difunde los cambios comprometidos del ledger a los clientes conectados.
// Publicar nunca bloquea al caso de uso: si el buffer está lleno el evento se descarta.
type Hub struct {
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	dropped    atomic.Int64
	log        zerolog.Logger
}

// NewHub crea el hub con un buffer de buffer mensajes.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, buffer),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Run atiende registros y difusiones hasta que ctx se cancela; entonces cierra los clientes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			h.log.Debug().Int("clients", h.ClientCount()).Msg("cliente WS conectado")

		case c := <-h.unregister:
			h.mutex.Lock()
			delete(h.clients, c)
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register suscribe un cliente. Con el hub detenido el cliente se cierra.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Unregister retira un cliente sin cerrarlo; la conexión es de quien la registró.
// Al volver, el hub ya no escribe ni cierra c.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount cantidad de clientes suscritos.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Dropped eventos descartados por buffer lleno.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Publish encola el evento sin bloquear.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event", ev.Type).Msg("serializar evento")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.dropped.Add(1)
		h.log.Warn().Str("event", ev.Type).Msg("buffer WS lleno, evento descartado")
	}
}

// MovementCommitted implementa inventory.EventPublisher.
func (h *Hub) MovementCommitted(m *entity.Movement) {
	h.Publish(Event{Type: EventMovementCreated, Data: inventory.ToMovementResponse(m)})
}

// MaterialRemoved implementa inventory.EventPublisher.
func (h *Hub) MaterialRemoved(m *entity.Material, movementsDeleted int64) {
	h.Publish(Event{Type: EventMaterialRemoved, Data: MaterialRemovedData{
		MaterialID:       m.ID,
		ProjectID:        m.ProjectID,
		MovementsDeleted: movementsDeleted,
	}})
}
