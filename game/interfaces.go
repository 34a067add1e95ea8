package game

// NetworkSession abstracts one client connection so the gateway and its
// tests never touch the websocket library directly.
type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}
