package ws

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderEventHub pushes order status events to restaurant dashboards over
// WebSocket. Implements services.OrderEventPublisher.
type OrderEventHub struct {
	clients    map[uint]map[*websocket.Conn]bool // restaurantID -> set of clients
	broadcast  chan services.OrderStatusEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	restRepo   *repository.RestaurantRepository
}

type subscription struct {
	Conn         *websocket.Conn
	RestaurantID uint
}

func NewOrderEventHub(restRepo *repository.RestaurantRepository) *OrderEventHub {
	return &OrderEventHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan services.OrderStatusEvent, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		restRepo:   restRepo,
	}
}

// PublishStatus queues an event for delivery. Dropping on a full queue is
// acceptable; the dashboard refreshes from the API anyway.
func (h *OrderEventHub) PublishStatus(ev services.OrderStatusEvent) {
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("ws: dropping order event for restaurant %d, queue full", ev.RestaurantID)
	}
}

// Run services register/unregister/broadcast until the process exits.
func (h *OrderEventHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.RestaurantID] == nil {
				h.clients[sub.RestaurantID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.RestaurantID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.RestaurantID][sub.Conn]; ok {
				delete(h.clients[sub.RestaurantID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.RestaurantID] {
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[ev.RestaurantID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/restaurants/:id/orders (owner or admin).
func (h *OrderEventHub) HandleWebSocket(c *gin.Context) {
	restID64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad restaurant id"})
		return
	}
	restID := uint(restID64)

	userID := utils.CurrentUserID(c)
	if utils.CurrentRole(c) != "admin" {
		ok, err := h.restRepo.IsOwnedBy(restID, userID)
		if err != nil || !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "no access"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := subscription{Conn: conn, RestaurantID: restID}
	h.register <- sub

	// Reader loop only to detect close; clients never send.
	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
