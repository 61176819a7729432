// Package ui is the boundary of the hosted UI framework that the mock environment plugs into.
//
// It contains only the parts of the framework contract that component code and the mock
// environment touch: the Service that owns sessions, the framework-level Session wrapping a
// container session, the root UI object with its Page, the ambient "current instances" carried in
// a context.Context, the resource lookup used for packaged resources and the build descriptor,
// and the template parser hook.
//
// Component code written against this package cannot tell whether the objects it obtains from
// CurrentSession or CurrentUI are backed by a real container or by the mockenv package.
package ui
