package ui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/launchdarkly/mock-ui-environment/servlet"
)

// Session is the framework-level session. It wraps a container session, which is refreshed on
// every request, and holds the UIs opened in it.
type Session struct {
	service *Service
	wrapped servlet.Session
	lock    sync.Locker
	id      string
	uis     []UI
	mu      sync.Mutex
}

// NewSession creates a session for service. It is not usable until RefreshTransients has bound it
// to a container session.
func NewSession(service *Service) *Session {
	return &Session{service: service}
}

// LockAttributeName is the container session attribute under which the per-session lock of the
// given service is stored.
func LockAttributeName(service *Service) string {
	return service.Name() + ".lock"
}

// RefreshTransients binds the session to the container session of the current request and to the
// service. The per-session lock is taken from the container session; if none is stored there
// yet, a new unlocked one is stored.
func (s *Session) RefreshTransients(wrapped servlet.Session, service *Service) error {
	if wrapped == nil || service == nil {
		return errors.New("session refresh requires a container session and a service")
	}
	id, err := wrapped.ID()
	if err != nil {
		return err
	}
	name := LockAttributeName(service)
	value, ok, err := wrapped.Attribute(name)
	if err != nil {
		return err
	}
	var lock sync.Locker
	if ok {
		if lock, ok = value.(sync.Locker); !ok {
			return fmt.Errorf("session attribute %s is a %T, not a lock", name, value)
		}
	} else {
		lock = &sync.Mutex{}
		if err := wrapped.SetAttribute(name, lock); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.wrapped, s.service, s.lock, s.id = wrapped, service, lock, id
	s.mu.Unlock()
	service.registerSession(id, s)
	return nil
}

// Service returns the service the session belongs to.
func (s *Session) Service() *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service
}

// Wrapped returns the container session, or nil before RefreshTransients.
func (s *Session) Wrapped() servlet.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrapped
}

// Lock returns the per-session lock, or nil before RefreshTransients.
func (s *Session) Lock() sync.Locker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock
}

// IsLocked reports whether the per-session lock is currently held by anyone.
func (s *Session) IsLocked() bool {
	lock := s.Lock()
	m, ok := lock.(*sync.Mutex)
	if !ok {
		return false
	}
	if m.TryLock() {
		m.Unlock()
		return false
	}
	return true
}

// Attribute reads an attribute of the container session.
func (s *Session) Attribute(name string) (interface{}, bool, error) {
	w := s.Wrapped()
	if w == nil {
		return nil, false, errors.New("session is not bound to a container session")
	}
	return w.Attribute(name)
}

// SetAttribute writes an attribute of the container session.
func (s *Session) SetAttribute(name string, value interface{}) error {
	w := s.Wrapped()
	if w == nil {
		return errors.New("session is not bound to a container session")
	}
	return w.SetAttribute(name, value)
}

// AddUI records a UI as open in this session.
func (s *Session) AddUI(u UI) {
	s.mu.Lock()
	s.uis = append(s.uis, u)
	s.mu.Unlock()
}

// UIs returns the UIs open in this session.
func (s *Session) UIs() []UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UI(nil), s.uis...)
}

// Close detaches the session from its service and forgets its UIs. The container session is left
// as it is.
func (s *Session) Close() {
	s.mu.Lock()
	service, id := s.service, s.id
	s.uis = nil
	s.mu.Unlock()
	if service != nil && id != "" {
		service.unregisterSession(id)
	}
}
