package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/qboard/pkg/version"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// HandleEvents streams board events over a websocket. The first message is
// {"type":"init"}; every following message is a realtime.Event.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	hub := s.board.Hub()
	id, events := hub.Register()
	defer hub.Unregister(id)
	s.log.Debugf("event listener %d connected (%d total)", id, hub.Size())

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(initMessage{Type: "init", Version: version.APIVersion()}); err != nil {
		return
	}

	// Incoming frames are discarded; the read loop only notices disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			s.log.Debugf("event listener %d disconnected", id)
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				s.log.Debugf("event listener %d write failed: %v", id, err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
