package servlet

import (
	"errors"
	"io/fs"
	"time"
)

// ErrIllegalState is returned by any session operation that is not allowed in the session's
// current state, such as reading an attribute of an invalidated session.
var ErrIllegalState = errors.New("illegal state: session has been invalidated")

// Context is the container-wide context shared by all sessions of one web application.
type Context interface {
	ContextPath() string
	InitParameter(name string) string
	InitParameterNames() []string
	SetInitParameter(name, value string) bool
	Attribute(name string) (interface{}, bool)
	SetAttribute(name string, value interface{})
	RemoveAttribute(name string)
	// Resources returns the static resources packaged with the web application, or nil.
	Resources() fs.FS
}

// Session is the container's per-client session.
//
// Implementations are safe for concurrent use. Once Invalidate has succeeded, every method that
// returns an error fails with ErrIllegalState.
type Session interface {
	ID() (string, error)
	CreationTime() (time.Time, error)
	LastAccessedTime() (time.Time, error)
	ServletContext() Context
	MaxInactiveInterval() time.Duration
	SetMaxInactiveInterval(d time.Duration)
	// Attribute returns the named attribute; ok is false if it is not set.
	Attribute(name string) (value interface{}, ok bool, err error)
	SetAttribute(name string, value interface{}) error
	RemoveAttribute(name string) error
	AttributeNames() ([]string, error)
	IsNew() (bool, error)
	Invalidate() error
}

// Config is what the container passes to a servlet when initializing it.
type Config interface {
	ServletName() string
	ServletContext() Context
	InitParameter(name string) string
}
