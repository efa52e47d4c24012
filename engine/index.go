package engine

type transports struct {
	New func(TransportManager, Codec, ConnFactory) TransportInterface
}

var _transports map[string]*transports = map[string]*transports{
	"websocket": &transports{
		New: func(manager TransportManager, codec Codec, newConn ConnFactory) TransportInterface {
			return NewWS(manager, codec, newConn)
		},
	},
}

// Transports lists the transports this client can construct, by name.
func Transports() map[string]*transports {
	return _transports
}
