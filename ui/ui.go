package ui

import (
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
)

// Request is an inbound request that opens a UI.
type Request struct {
	URL *url.URL
}

// Page is the browser page a UI is displayed in.
type Page struct {
	location *url.URL
	title    string
	lock     sync.Mutex
}

// Location is the page URL reported by the browser, or nil if the browser never reported one.
func (p *Page) Location() *url.URL {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.location
}

func (p *Page) Title() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.title
}

func (p *Page) SetTitle(title string) {
	p.lock.Lock()
	p.title = title
	p.lock.Unlock()
}

// UI is the root of a component tree.
//
// Applications implement UI by embedding a *Base created with NewBase and providing Init, which
// the framework calls once when the UI is opened.
type UI interface {
	Init(req *Request)
	UIBase() *Base
}

var lastUIID atomic.Int64

// Base holds the framework state of a UI.
type Base struct {
	id              int
	session         *Session
	page            *Page
	rootPath        string
	attached        bool
	attachListeners []func(UI)
	doInit          func(req *Request)
	lock            sync.Mutex
}

// NewBase creates the framework state for owner, which must be the UI that embeds it.
func NewBase(owner UI) *Base {
	b := &Base{
		id:   int(lastUIID.Add(1)),
		page: &Page{},
	}
	b.doInit = func(req *Request) {
		b.lock.Lock()
		b.attached = true
		session := b.session
		listeners := append([]func(UI)(nil), b.attachListeners...)
		b.lock.Unlock()
		if session != nil {
			session.AddUI(owner)
		}
		for _, l := range listeners {
			l(owner)
		}
		owner.Init(req)
	}
	return b
}

func (b *Base) UIBase() *Base {
	return b
}

func (b *Base) ID() int {
	return b.id
}

func (b *Base) Page() *Page {
	return b.page
}

func (b *Base) Session() *Session {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.session
}

func (b *Base) SetSession(s *Session) {
	b.lock.Lock()
	b.session = s
	b.lock.Unlock()
}

// RootPath is the path of the UI relative to the application root.
func (b *Base) RootPath() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.rootPath
}

// IsAttached reports whether the UI has been opened.
func (b *Base) IsAttached() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.attached
}

// AddAttachListener registers a callback run when the UI is opened, before Init.
func (b *Base) AddAttachListener(listener func(UI)) {
	b.lock.Lock()
	b.attachListeners = append(b.attachListeners, listener)
	b.lock.Unlock()
}

// Open opens u for an inbound request: the page location and root path are taken from the
// request, then the attach listeners and Init run. This is what the framework does when a browser
// loads the UI.
func Open(u UI, req *Request) error {
	if req == nil || req.URL == nil {
		return errors.New("cannot open a UI without an inbound request")
	}
	b := u.UIBase()
	if b.IsAttached() {
		return errors.New("UI is already open")
	}
	b.page.lock.Lock()
	b.page.location = req.URL
	b.page.lock.Unlock()
	b.lock.Lock()
	b.rootPath = req.URL.Path
	b.lock.Unlock()
	b.doInit(req)
	return nil
}
