package servlet

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxInactiveInterval is the session timeout used by CreateMockSession.
const DefaultMaxInactiveInterval = 30 * time.Minute

// MockSession emulates a container session.
//
// Its only state transition is valid -> invalidated, performed by Invalidate. After that, every
// method that can fail returns ErrIllegalState. ServletContext and the max-inactive-interval
// accessors are exempt, as they are in real containers.
type MockSession struct {
	id                  string
	ctx                 Context
	creationTime        time.Time
	maxInactiveInterval atomic.Int64
	attributes          sync.Map
	valid               atomic.Bool
}

// NewMockSession creates a valid session with no attributes.
func NewMockSession(id string, ctx Context, creationTime time.Time, maxInactiveInterval time.Duration) *MockSession {
	s := &MockSession{
		id:           id,
		ctx:          ctx,
		creationTime: creationTime,
	}
	s.maxInactiveInterval.Store(int64(maxInactiveInterval))
	s.valid.Store(true)
	return s
}

// CreateMockSession creates a new session with a random ID, created now.
func CreateMockSession(ctx Context) *MockSession {
	return NewMockSession(uuid.NewString(), ctx, time.Now(), DefaultMaxInactiveInterval)
}

// CopyMockSession creates a new session that takes over the identity and attributes of src.
// The source's last-accessed time becomes the creation time of the copy. Attributes with nil
// values are skipped.
func CopyMockSession(src Session) (*MockSession, error) {
	id, err := src.ID()
	if err != nil {
		return nil, err
	}
	accessed, err := src.LastAccessedTime()
	if err != nil {
		return nil, err
	}
	s := NewMockSession(id, src.ServletContext(), accessed, src.MaxInactiveInterval())
	if err := s.CopyAttributes(src); err != nil {
		return nil, err
	}
	return s, nil
}

// CopyAttributes copies every non-nil attribute of src into this session.
func (s *MockSession) CopyAttributes(src Session) error {
	if err := s.checkValid(); err != nil {
		return err
	}
	names, err := src.AttributeNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		value, ok, err := src.Attribute(name)
		if err != nil {
			return err
		}
		if !ok || value == nil {
			continue
		}
		s.attributes.Store(name, value)
	}
	return nil
}

// Destroy drops all attributes without changing the session's validity.
func (s *MockSession) Destroy() {
	s.attributes.Range(func(k, _ interface{}) bool {
		s.attributes.Delete(k)
		return true
	})
}

// IsValid reports whether Invalidate has not yet been called. It never fails.
func (s *MockSession) IsValid() bool {
	return s.valid.Load()
}

func (s *MockSession) ID() (string, error) {
	if err := s.checkValid(); err != nil {
		return "", err
	}
	return s.id, nil
}

func (s *MockSession) CreationTime() (time.Time, error) {
	if err := s.checkValid(); err != nil {
		return time.Time{}, err
	}
	return s.creationTime, nil
}

// LastAccessedTime always returns the zero time, since no request ever touches a mock session.
func (s *MockSession) LastAccessedTime() (time.Time, error) {
	if err := s.checkValid(); err != nil {
		return time.Time{}, err
	}
	return time.Time{}, nil
}

func (s *MockSession) ServletContext() Context {
	return s.ctx
}

func (s *MockSession) MaxInactiveInterval() time.Duration {
	return time.Duration(s.maxInactiveInterval.Load())
}

func (s *MockSession) SetMaxInactiveInterval(d time.Duration) {
	s.maxInactiveInterval.Store(int64(d))
}

func (s *MockSession) Attribute(name string) (interface{}, bool, error) {
	if err := s.checkValid(); err != nil {
		return nil, false, err
	}
	value, ok := s.attributes.Load(name)
	return value, ok, nil
}

// SetAttribute stores an attribute. Setting a nil value is the same as removing the attribute.
func (s *MockSession) SetAttribute(name string, value interface{}) error {
	if err := s.checkValid(); err != nil {
		return err
	}
	if value == nil {
		s.attributes.Delete(name)
		return nil
	}
	s.attributes.Store(name, value)
	return nil
}

func (s *MockSession) RemoveAttribute(name string) error {
	if err := s.checkValid(); err != nil {
		return err
	}
	s.attributes.Delete(name)
	return nil
}

// AttributeNames returns a sorted snapshot of the attribute names.
func (s *MockSession) AttributeNames() ([]string, error) {
	if err := s.checkValid(); err != nil {
		return nil, err
	}
	var names []string
	s.attributes.Range(func(k, _ interface{}) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names, nil
}

// IsNew is always false: a mock session behaves as one the client has already joined.
func (s *MockSession) IsNew() (bool, error) {
	if err := s.checkValid(); err != nil {
		return false, err
	}
	return false, nil
}

// Invalidate moves the session to the invalidated state. Invalidating twice is an error.
func (s *MockSession) Invalidate() error {
	if !s.valid.CompareAndSwap(true, false) {
		return ErrIllegalState
	}
	return nil
}

func (s *MockSession) checkValid() error {
	if !s.valid.Load() {
		return ErrIllegalState
	}
	return nil
}
