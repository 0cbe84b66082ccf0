package api

import (
	"github.com/adtechademy/wall/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// listenTestimonialChanges streams table-change notifications. Payloads
// carry only the operation and the affected id; consumers are expected to
// reload their list rather than patch it.
func listenTestimonialChanges(c *websocket.Conn) {
	events, cancel := services.SubscribeChanges()
	defer cancel()

	done := make(chan struct{})

	// Drain the read side so we notice the peer going away.
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				log.Debug().Err(err).Msg("A change stream connection is gone...")
				return
			}
		case <-done:
			return
		}
	}
}
