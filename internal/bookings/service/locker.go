package service

import "sync"

// roomLocker serializes same-room mutations inside this process so that
// local contention is resolved by a mutex instead of hammering the
// database advisory lock. Cross-process contention is still handled by
// the lock collection.
type roomLocker struct {
	mu    sync.Mutex
	rooms map[string]*roomMutex
}

type roomMutex struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocker() *roomLocker {
	return &roomLocker{
		rooms: make(map[string]*roomMutex),
	}
}

// Lock blocks until the room is free in this process and returns the
// unlock function. Entries are reference counted so the map does not
// grow with every room ever touched.
func (l *roomLocker) Lock(roomID string) func() {
	l.mu.Lock()
	rm, ok := l.rooms[roomID]
	if !ok {
		rm = &roomMutex{}
		l.rooms[roomID] = rm
	}
	rm.refs++
	l.mu.Unlock()

	rm.mu.Lock()

	return func() {
		rm.mu.Unlock()

		l.mu.Lock()
		rm.refs--
		if rm.refs == 0 {
			delete(l.rooms, roomID)
		}
		l.mu.Unlock()
	}
}
