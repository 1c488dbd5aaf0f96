package protocol

import (
	"fmt"
	"sync"
)

var (
	dialers = map[string]Dialer{
		"loopback": NewLoopbackDialer(),
	}
	mutex sync.RWMutex
)

// GetDialer returns a registered dialer by name. The "loopback" dialer is
// pre-registered; real transports register themselves via RegisterDialer.
func GetDialer(name string) (Dialer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	d, exists := dialers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialer, name)
	}
	return d, nil
}

// RegisterDialer adds or replaces a named dialer in the global registry.
func RegisterDialer(name string, d Dialer) {
	mutex.Lock()
	defer mutex.Unlock()

	dialers[name] = d
}
