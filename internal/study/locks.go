package study

import "sync"

// cardLocks serializes work on the same card inside one process
type cardLocks struct {
	mu    sync.Mutex
	locks map[string]*cardLock
}

type cardLock struct {
	sync.Mutex
	refs int
}

func newCardLocks() *cardLocks {
	return &cardLocks{locks: make(map[string]*cardLock)}
}

// Lock blocks until the card is free and returns the matching unlock func
func (c *cardLocks) Lock(cardID string) func() {
	c.mu.Lock()
	l, ok := c.locks[cardID]
	if !ok {
		l = &cardLock{}
		c.locks[cardID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, cardID)
		}
		c.mu.Unlock()
	}
}
