package lib

import (
	"context"
	"errors"
	"time"
)

var ErrTimeout = errors.New("timeout")

// Mutex is a mutual exclusion lock that can be acquired with a timeout or a context
type Mutex struct {
	ch chan struct{}
}

func NewMutex() Mutex {
	return Mutex{ch: make(chan struct{}, 1)}
}

func (m Mutex) Lock() {
	m.ch <- struct{}{}
}

func (m Mutex) LockCtx(ctx context.Context) error {
	if m.TryLock() {
		return nil
	}

	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m Mutex) LockTimeout(timeout time.Duration) error {
	if m.TryLock() {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTimeout
	}
}

func (m Mutex) TryLock() bool {
	select {
	case m.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock of an unlocked mutex is a no-op
func (m Mutex) Unlock() {
	select {
	case <-m.ch:
	default:
	}
}
