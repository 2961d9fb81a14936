package natives

import (
	"github.com/gorilla/websocket"

	"github.com/lgtm-migrator/grace/pkg/value"
)

func init() {
	register(Native{Name: "ws_connect", Arity: 1, Fn: wsConnect})
	register(Native{Name: "ws_send", Arity: 2, Fn: wsSend})
	register(Native{Name: "ws_recv", Arity: 1, Fn: wsRecv})
	register(Native{Name: "ws_close", Arity: 1, Fn: wsClose})
}

// Socket wraps a client-side gorilla/websocket connection as a Grace
// Object, so a Value can carry it across native calls the way any other
// heap-resident value does.
type Socket struct {
	conn *websocket.Conn
}

func (s *Socket) ObjectKind() string { return "Socket" }
func (s *Socket) Inspect() string    { return "<socket>" }
func (s *Socket) Truthy() bool       { return s.conn != nil }
func (s *Socket) Equal(other value.Object) bool {
	o, ok := other.(*Socket)
	return ok && o == s
}

func asSocket(v value.Value) (*Socket, error) {
	if !v.IsObject() {
		return nil, errInvalidType("expected a socket")
	}
	s, ok := v.AsObject().(*Socket)
	if !ok {
		return nil, errInvalidType("expected a socket")
	}
	return s, nil
}

func wsConnect(args []value.Value) (value.Value, error) {
	if !args[0].IsString() {
		return value.Null, errInvalidArgument("ws_connect expects a URL string")
	}
	conn, _, err := websocket.DefaultDialer.Dial(args[0].AsString(), nil)
	if err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.FromObject(&Socket{conn: conn}), nil
}

func wsSend(args []value.Value) (value.Value, error) {
	sock, err := asSocket(args[0])
	if err != nil {
		return value.Null, err
	}
	if !args[1].IsString() {
		return value.Null, errInvalidArgument("ws_send expects a string message")
	}
	if err := sock.conn.WriteMessage(websocket.TextMessage, []byte(args[1].AsString())); err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.Null, nil
}

func wsRecv(args []value.Value) (value.Value, error) {
	sock, err := asSocket(args[0])
	if err != nil {
		return value.Null, err
	}
	_, msg, err := sock.conn.ReadMessage()
	if err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.String(string(msg)), nil
}

func wsClose(args []value.Value) (value.Value, error) {
	sock, err := asSocket(args[0])
	if err != nil {
		return value.Null, err
	}
	if err := sock.conn.Close(); err != nil {
		return value.Null, &Error{Kind: "InvalidArgument", Message: err.Error()}
	}
	return value.Null, nil
}
