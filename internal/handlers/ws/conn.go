package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// Conn is the minimal connection surface the client pumps need. The
// gorilla wrapper satisfies it; tests substitute a recording fake.
type Conn interface {
	Write(data []byte) error
	Ping() error
	Read() ([]byte, error)
	Close(reason string)
}

type websocketConn struct {
	socket *websocket.Conn
}

// NewConn wraps a gorilla connection with the deadline discipline the
// pumps rely on
func NewConn(socket *websocket.Conn) Conn {
	socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConn{socket: socket}
}

func (wc *websocketConn) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConn) Ping() error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConn) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConn) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}
