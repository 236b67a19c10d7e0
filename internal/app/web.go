// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/device"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsCommand is what the browser sends when an operator presses a mode
// button.
type wsCommand struct {
	Action  string `json:"action"`  // "command"
	Command string `json:"command"` // "1", "2" or "3"
}

// readingHub fans incoming readings out to every connected websocket.
type readingHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newReadingHub() *readingHub {
	return &readingHub{conns: make(map[*websocket.Conn]bool)}
}

func (h *readingHub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
}

func (h *readingHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

func (h *readingHub) broadcast(rd reading.Reading) {
	payload, err := json.Marshal(rd)
	if err != nil {
		log.Errorf("web: json marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.Close()
			delete(h.conns, c)
		}
	}
}

// RunWeb serves the live view: a JSON snapshot API, a websocket feed of
// readings (which also accepts mode commands from the browser), a rendered
// PNG snapshot of the current traces, and the static page under ./web.
func RunWeb() error {
	cfg := config.Get()

	sess := session.New()
	hub := newReadingHub()
	in := make(chan reading.Reading, 256)
	go func() {
		for rd := range in {
			sess.Add(rd)
			hub.broadcast(rd)
		}
	}()

	// 1) Subscribe to both reading topics
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var rd reading.Reading
		if err := json.Unmarshal(msg.Payload(), &rd); err != nil {
			log.Warnf("web: payload unmarshal error: %v", err)
			return
		}
		in <- rd
	}
	for _, topic := range []string{cfg.TopicWeight, cfg.TopicFSR} {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Infof("web: subscribed to %s", topic)
	}

	// 2) JSON API: latest reading per channel
	http.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		type latest struct {
			Time  float64 `json:"t"`
			Value float64 `json:"v"`
		}
		out := map[string]*latest{}
		for _, ch := range []reading.Channel{reading.ChannelWeight, reading.ChannelFSR} {
			if p, ok := sess.Latest(ch); ok {
				out[string(ch)] = &latest{Time: p.Time, Value: p.Value}
			}
		}
		if len(out) == 0 {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Errorf("web: json encode error: %v", err)
		}
	})

	// 3) JSON API: full trace of one channel
	http.HandleFunc("/api/trace", func(w http.ResponseWriter, r *http.Request) {
		ch, err := reading.ParseChannel(r.URL.Query().Get("channel"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sess.Trace(ch)); err != nil {
			log.Errorf("web: json encode error: %v", err)
		}
	})

	// 4) PNG sparkline snapshot of both traces
	http.HandleFunc("/api/snapshot.png", func(w http.ResponseWriter, r *http.Request) {
		img := renderSnapshot(sess)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Errorf("web: png encode error: %v", err)
		}
	})

	// 5) Websocket: push readings, accept mode commands
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		hub.add(conn)
		defer hub.remove(conn)

		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Errorf("web: websocket error: %v", err)
				}
				return
			}
			if cmd.Action != "command" {
				continue
			}
			if _, err := device.ParseCommand(cmd.Command); err != nil {
				log.Warnf("web: %v", err)
				continue
			}
			token := client.Publish(cfg.TopicCommand, 1, false, cmd.Command)
			token.Wait()
			if token.Error() != nil {
				log.Errorf("web: command publish error: %v", token.Error())
				continue
			}
			log.Infof("web: relayed command %s", cmd.Command)
		}
	})

	// 6) Static files from ./web as the root
	http.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Infof("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
