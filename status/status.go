// Package status broadcasts viewer messages and frame statistics to
// websocket clients. Producers never block on slow clients.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	STATS
)

type status struct {
	Message string      `json:"message,omitempty"`
	Time    time.Time   `json:"time"`
	Type    int         `json:"type"`
	Data    interface{} `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames and notices when the peer goes away.
func (c *client) readPump() {
	defer unregisterClient(c)
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

// NewClient registers conn and replays the last broadcast message to it.
func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	globalLock.Lock()
	broadcastList[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()
	go c.writePump()
	go c.readPump()
	return c
}

var statusBroadcast chan *status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	if broadcastList[c] {
		delete(broadcastList, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func Clients() int {
	globalLock.Lock()
	defer globalLock.Unlock()
	return len(broadcastList)
}

func init() {
	statusBroadcast = make(chan *status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				log.Printf("[status] marshal error: %v", err)
				continue
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					// client is behind, it gets the next one
				}
			}
			globalLock.Unlock()
		}
	}()
}

func post(s *status) {
	select {
	case statusBroadcast <- s:
	default:
		log.Printf("[status] broadcast queue full, dropping %q", s.Message)
	}
}

func Info(format string, a ...interface{}) {
	post(&status{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: INFO})
}

func Error(format string, a ...interface{}) {
	post(&status{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: ERROR})
}

// Stats publishes a snapshot of frame statistics. v must not be mutated
// after the call.
func Stats(v interface{}) {
	post(&status{Time: time.Now(), Type: STATS, Data: v})
}
