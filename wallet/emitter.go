package wallet

import (
	"encoding/json"
	"sync"
)

// Emitter is a listener registry keyed by event name. The zero value is ready
// to use; embed it to get On and RemoveListener.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]Listener
}

// On registers l for event.
func (e *Emitter) On(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
}

// RemoveListener drops the most recent registration of l for event.
func (e *Emitter) RemoveListener(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := e.listeners[event]
	for i := len(ls) - 1; i >= 0; i-- {
		if ls[i] == l {
			e.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// ListenerCount reports how many listeners are registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Emit marshals payload and delivers it to every listener of event. Listeners
// run on the caller's goroutine, outside the registry lock.
func (e *Emitter) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	e.mu.Lock()
	ls := append([]Listener(nil), e.listeners[event]...)
	e.mu.Unlock()

	for _, l := range ls {
		l.HandleEvent(event, data)
	}
	return nil
}
