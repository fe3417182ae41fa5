package history

import "sync"

// Listener is a zero-argument callback invoked after every mutating
// operation. Listeners read engine state through the query methods and
// must treat what they observe as read-only.
type Listener func()

// fanout delivers change notifications to subscribed listeners in
// subscription order, isolating panics per listener so one broken
// observer cannot break the others or the mutating caller.
type fanout struct {
	mu sync.Mutex

	subs   []subscriber
	nextID uint64

	// Called with the recovered value when a listener panics.
	panicHandler func(recovered any)
}

type subscriber struct {
	id uint64
	fn Listener
}

// subscribe registers a listener and returns its removal function.
// The removal function is safe to call more than once.
func (f *fanout) subscribe(fn Listener) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs = append(f.subs, subscriber{id: id, fn: fn})
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.subs {
			if sub.id == id {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				return
			}
		}
	}
}

// notify invokes all current listeners in subscription order.
// Listeners are called outside the lock so they can subscribe,
// unsubscribe, or query the engine.
func (f *fanout) notify() {
	f.mu.Lock()
	subs := make([]subscriber, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		f.safeCall(sub.fn)
	}
}

// safeCall invokes a listener with panic recovery.
func (f *fanout) safeCall(fn Listener) {
	defer func() {
		if r := recover(); r != nil && f.panicHandler != nil {
			f.panicHandler(r)
		}
	}()
	fn()
}
