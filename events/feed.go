// Package events broadcasts gallery updates to connected browsers over
// socket.io.
package events

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

const (
	// EventDesignCreated carries the saved design as its only argument.
	EventDesignCreated = "design-created"

	galleryRoom socketio.Room = "gallery"
)

// Notifier is told about every design that has been persisted.
type Notifier interface {
	DesignCreated(design *core.Design)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) DesignCreated(*core.Design) {}

// Feed is a Notifier backed by a socket.io server.
type Feed struct {
	srv *socketio.Server
}

func NewFeed() *Feed {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	//nolint:errcheck // Socket.IO event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}
		socket.Join(galleryRoom)
		logrus.WithField("socketId", socket.Id()).Debug("Gallery client connected")

		//nolint:errcheck
		socket.On("disconnect", func(...any) {
			logrus.WithField("socketId", socket.Id()).Debug("Gallery client disconnected")
			socket.RemoveAllListeners("")
		})
	})

	return &Feed{srv: srv}
}

// Handler serves the socket.io transport; mount it at /socket.io/.
func (f *Feed) Handler() http.Handler {
	return f.srv.ServeHandler(nil)
}

func (f *Feed) DesignCreated(design *core.Design) {
	if err := f.srv.In(galleryRoom).Emit(EventDesignCreated, design); err != nil {
		logrus.WithFields(logrus.Fields{
			"error":    err,
			"designId": design.ID,
		}).Warn("Failed to broadcast design")
	}
}

func (f *Feed) Close() {
	f.srv.Close(nil)
}
