// Package errors holds the error values surfaced by the engine.io client.
package errors

import "errors"

// Sentinel errors.
var (
	ErrNotConnected      = errors.New("connection is not open")
	ErrConnClosed        = errors.New("connection is closed")
	ErrEmptyPacket       = errors.New("empty packet")
	ErrUnknownPacketType = errors.New("unknown packet type")
	ErrNoTransports      = errors.New("no transports available")
	ErrHandshake         = errors.New("handshake failed")
)

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
