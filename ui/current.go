package ui

import (
	"context"
	"sync"
)

// Instances holds the "current" service, session and UI for one flow of execution, such as the
// handling of one request or one test. It is carried in a context.Context, so concurrent flows
// each see their own instances without any global state.
type Instances struct {
	service *Service
	session *Session
	ui      UI
	lock    sync.RWMutex
}

type instancesKey struct{}

// WithInstances returns a child context carrying a new, empty Instances.
func WithInstances(ctx context.Context) (context.Context, *Instances) {
	inst := &Instances{}
	return context.WithValue(ctx, instancesKey{}, inst), inst
}

// InstancesFrom returns the Instances carried by ctx, or nil.
func InstancesFrom(ctx context.Context) *Instances {
	if ctx == nil {
		return nil
	}
	inst, _ := ctx.Value(instancesKey{}).(*Instances)
	return inst
}

func (i *Instances) SetService(s *Service) {
	i.lock.Lock()
	i.service = s
	i.lock.Unlock()
}

func (i *Instances) SetSession(s *Session) {
	i.lock.Lock()
	i.session = s
	i.lock.Unlock()
}

func (i *Instances) SetUI(u UI) {
	i.lock.Lock()
	i.ui = u
	i.lock.Unlock()
}

// Clear unsets all current instances.
func (i *Instances) Clear() {
	i.lock.Lock()
	i.service, i.session, i.ui = nil, nil, nil
	i.lock.Unlock()
}

// CurrentService returns the current service for ctx, or nil.
func CurrentService(ctx context.Context) *Service {
	inst := InstancesFrom(ctx)
	if inst == nil {
		return nil
	}
	inst.lock.RLock()
	defer inst.lock.RUnlock()
	return inst.service
}

// CurrentSession returns the current session for ctx, or nil.
func CurrentSession(ctx context.Context) *Session {
	inst := InstancesFrom(ctx)
	if inst == nil {
		return nil
	}
	inst.lock.RLock()
	defer inst.lock.RUnlock()
	return inst.session
}

// CurrentUI returns the current UI for ctx, or nil.
func CurrentUI(ctx context.Context) UI {
	inst := InstancesFrom(ctx)
	if inst == nil {
		return nil
	}
	inst.lock.RLock()
	defer inst.lock.RUnlock()
	return inst.ui
}
