package servlet

import (
	"io/fs"
	"sort"
	"sync"
)

// MockContext is an in-memory Context.
type MockContext struct {
	contextPath string
	resources   fs.FS
	initParams  map[string]string
	attributes  map[string]interface{}
	lock        sync.RWMutex
}

// NewMockContext creates a context rooted at the empty context path. resources may be nil.
func NewMockContext(resources fs.FS) *MockContext {
	return &MockContext{
		resources:  resources,
		initParams: make(map[string]string),
		attributes: make(map[string]interface{}),
	}
}

func (c *MockContext) ContextPath() string {
	return c.contextPath
}

func (c *MockContext) InitParameter(name string) string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.initParams[name]
}

func (c *MockContext) InitParameterNames() []string {
	c.lock.RLock()
	names := make([]string, 0, len(c.initParams))
	for k := range c.initParams {
		names = append(names, k)
	}
	c.lock.RUnlock()
	sort.Strings(names)
	return names
}

// SetInitParameter sets a parameter unless it is already set, mirroring the container contract.
// It returns false if the parameter was already present.
func (c *MockContext) SetInitParameter(name, value string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.initParams[name]; ok {
		return false
	}
	c.initParams[name] = value
	return true
}

func (c *MockContext) Attribute(name string) (interface{}, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	v, ok := c.attributes[name]
	return v, ok
}

func (c *MockContext) SetAttribute(name string, value interface{}) {
	c.lock.Lock()
	c.attributes[name] = value
	c.lock.Unlock()
}

func (c *MockContext) RemoveAttribute(name string) {
	c.lock.Lock()
	delete(c.attributes, name)
	c.lock.Unlock()
}

func (c *MockContext) Resources() fs.FS {
	return c.resources
}

// MockConfig is a Config for a servlet deployed into a MockContext.
type MockConfig struct {
	name       string
	ctx        Context
	initParams map[string]string
}

// NewMockConfig creates a servlet config. initParams may be nil.
func NewMockConfig(name string, ctx Context, initParams map[string]string) *MockConfig {
	params := make(map[string]string, len(initParams))
	for k, v := range initParams {
		params[k] = v
	}
	return &MockConfig{name: name, ctx: ctx, initParams: params}
}

func (c *MockConfig) ServletName() string {
	return c.name
}

func (c *MockConfig) ServletContext() Context {
	return c.ctx
}

func (c *MockConfig) InitParameter(name string) string {
	return c.initParams[name]
}
