package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// FCMClient mengirim push notification ke Firebase Cloud Messaging (legacy
// HTTP API). Semua kegagalan hanya dicatat; push bersifat fire-and-forget.
type FCMClient struct {
	ServerKey string
	Endpoint  string
	HTTP      *http.Client
}

func NewFCMClient(serverKey, endpoint string) *FCMClient {
	return &FCMClient{
		ServerKey: serverKey,
		Endpoint:  endpoint,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmPayload struct {
	To           string                 `json:"to"`
	Notification fcmNotification        `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send mengirim satu push ke token perangkat. Mengembalikan error hanya untuk
// dicatat pemanggil; tidak ada yang boleh gagal karenanya.
func (f *FCMClient) Send(token, title, body string, data map[string]interface{}) error {
	if f == nil || f.ServerKey == "" || token == "" {
		return nil
	}

	payload, err := json.Marshal(fcmPayload{
		To:           token,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, f.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.ServerKey)

	resp, err := f.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fcm merespons %d", resp.StatusCode)
	}
	return nil
}

// SendAsync mengirim push di goroutine terpisah dan mencatat kegagalannya.
func (f *FCMClient) SendAsync(token, title, body string, data map[string]interface{}) {
	if f == nil || f.ServerKey == "" || token == "" {
		return
	}
	go func() {
		if err := f.Send(token, title, body, data); err != nil {
			log.Printf("fcm: gagal mengirim push: %v", err)
		}
	}()
}
