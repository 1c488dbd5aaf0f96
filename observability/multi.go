package observability

import "context"

// MultiObserver fans events out to multiple observers. Nil observers are
// filtered at construction.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver over all non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
