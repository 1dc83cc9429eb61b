package ws

// Hub menampung koneksi papan antrian (display loket) dan melakukan
// broadcast setiap perubahan status antrian/pembayaran ke semua client.

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Client mewakili satu koneksi WebSocket.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub mengelola semua koneksi client.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// BroadcastQueueUpdate mengirim perubahan status antrian ke papan antrian.
// Gagal marshal hanya dicatat, tidak pernah menggagalkan operasi pemicunya.
func BroadcastQueueUpdate(queueID int64, nomorAntrian string, serviceID int, status string) {
	payload := map[string]interface{}{
		"type":          "queue",
		"id_antrian":    queueID,
		"nomor_antrian": nomorAntrian,
		"service_id":    serviceID,
		"status":        status,
	}
	message, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: gagal marshal pesan antrian: %v", err)
		return
	}
	HubInstance.Broadcast <- message
}

// BroadcastPaymentUpdate mengirim perubahan status pembayaran.
func BroadcastPaymentUpdate(paymentID int64, billID int64, status string) {
	payload := map[string]interface{}{
		"type":       "payment",
		"id_payment": paymentID,
		"id_tagihan": billID,
		"status":     status,
	}
	message, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: gagal marshal pesan pembayaran: %v", err)
		return
	}
	HubInstance.Broadcast <- message
}
