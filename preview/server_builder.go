package preview

import (
	"time"

	"github.com/rs/zerolog"
)

// ServerOption is a functional option for configuring a Server via NewServer.
type ServerOption func(*Server)

// WithLogger sets the connection and control logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithWriteTimeout bounds each websocket write. Non-positive values are ignored.
//
// Parameters:
//   - d: the write deadline
//
// Returns:
//   - ServerOption: option function to apply
func WithWriteTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithNodes toggles the per-node snapshot in frame messages. Counts are always sent.
func WithNodes(enabled bool) ServerOption {
	return func(s *Server) {
		s.withNodes = enabled
	}
}
