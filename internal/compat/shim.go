// Package compat is the one place where the mock environment reaches into framework state that has
// no public API.
//
// A UI under test is never opened by a browser, so nobody reports its page location, and the
// framework's own entry point for opening a UI (ui.Open) insists on an inbound request. The mock
// environment therefore sets the page location and root path directly and runs the UI's internal
// init entry point with a nil request. Only the fields named in this package are ever touched, and
// the field layout is pinned per framework version range by the Shim implementations.
package compat

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/launchdarkly/mock-ui-environment/semver"
	"github.com/launchdarkly/mock-ui-environment/ui"
)

// Names of the internal fields patched by the shims.
const (
	locationField = "location"
	rootPathField = "rootPath"
	initField     = "doInit"
)

// RootPathIntroduced is the first framework core version whose UI state has a root path field.
var RootPathIntroduced = semver.MustParse("2.1.0")

// Shim patches internal UI state for one framework version range.
type Shim interface {
	// PatchLocation sets the page location the browser would normally report.
	PatchLocation(u ui.UI, location *url.URL) error
	// PatchRootPath sets the UI root path the inbound request would normally determine.
	PatchRootPath(u ui.UI, rootPath string) error
	// RunInit runs the framework's attach lifecycle and the UI's Init with the given request,
	// which may be nil.
	RunInit(u ui.UI, req *ui.Request) error
}

// For returns the shim for the given framework core version.
func For(flowVersion semver.Version) Shim {
	if flowVersion.Less(RootPathIntroduced) {
		return fieldShim{tolerateMissingRootPath: true}
	}
	return fieldShim{}
}

type fieldShim struct {
	// Framework cores before RootPathIntroduced have no root path field.
	tolerateMissingRootPath bool
}

func (s fieldShim) PatchLocation(u ui.UI, location *url.URL) error {
	return setField(u.UIBase().Page(), locationField, location)
}

func (s fieldShim) PatchRootPath(u ui.UI, rootPath string) error {
	return s.patchRootPath(u.UIBase(), rootPath)
}

func (s fieldShim) patchRootPath(target interface{}, rootPath string) error {
	err := setField(target, rootPathField, rootPath)
	if s.tolerateMissingRootPath && errors.Is(err, errFieldAbsent) {
		return nil
	}
	return err
}

func (s fieldShim) RunInit(u ui.UI, req *ui.Request) error {
	v, err := getField(u.UIBase(), initField)
	if err != nil {
		return err
	}
	doInit, ok := v.Interface().(func(*ui.Request))
	if !ok || doInit == nil {
		return fmt.Errorf("UI %T has no init entry point; was its state created with ui.NewBase?", u)
	}
	doInit(req)
	return nil
}
