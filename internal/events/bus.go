package events

import (
	platformevents "github.com/jimmyqian/sovra-ui-sub000/platform/events"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"
)

// InMemoryBus is the process-local bus the session engine publishes on.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a bus whose handler failures are logged to log.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
