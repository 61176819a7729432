// Package meta detects which version of the hosted UI framework is installed and refuses to run in
// configurations the mock environment does not support.
//
// All facts are derived once per Detector and cached; the package-level functions use a process-wide
// default Detector.
package meta

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/launchdarkly/mock-ui-environment/semver"
	"github.com/launchdarkly/mock-ui-environment/ui"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// LegacyEngineResource is packaged only by the legacy rendering engine.
const LegacyEngineResource = "META-INF/resources/webjars/polymer/polymer.html"

const legacyModeRemediation = "this release line does not support the legacy rendering mode; please use the 1.1.x release line of the mock environment instead"

var (
	// ErrUnsupportedFrameworkVersion means the installed framework is older than the supported range,
	// or carries no version descriptor at all.
	ErrUnsupportedFrameworkVersion = errors.New("unsupported framework version")

	// ErrLegacyModeUnsupported means the framework is configured for the legacy rendering mode.
	ErrLegacyModeUnsupported = errors.New("legacy rendering mode is not supported")
)

// MinimumSupportedVersion is the oldest framework distribution the mock environment works with.
var MinimumSupportedVersion = semver.MustParse("14.3.0")

// Detector derives framework facts from the installed artifacts.
type Detector struct {
	// Marker is a value of the marker type whose "version" struct tag is the artifact descriptor.
	Marker interface{}
	// FindResource finds packaged resources.
	FindResource func(name string) ([]byte, bool, error)
	// ReadBuildInfo returns the raw build descriptor. It must be the same lookup the framework
	// itself uses, so that the harness sees exactly what the framework will see.
	ReadBuildInfo func() (string, bool, error)

	versionOnce sync.Once
	version     semver.Version
	versionErr  error
}

// NewDetector creates a Detector reading the installed framework through the ui package.
func NewDetector() *Detector {
	return &Detector{
		Marker:        ui.CoreBundle{},
		FindResource:  ui.LookupResource,
		ReadBuildInfo: ui.BuildInfo,
	}
}

var defaultDetector = NewDetector()

// Default returns the process-wide Detector.
func Default() *Detector {
	return defaultDetector
}

// FlowVersion returns the version of the framework core.
func FlowVersion() semver.Version {
	return semver.Version{Major: ui.MajorVersion, Minor: ui.MinorVersion, Bugfix: ui.Revision}
}

// FullVersion returns the version of the installed distribution. The result is computed once.
func (d *Detector) FullVersion() (semver.Version, error) {
	d.versionOnce.Do(func() {
		d.version, d.versionErr = d.readMarker()
	})
	return d.version, d.versionErr
}

func (d *Detector) readMarker() (semver.Version, error) {
	if d.Marker == nil {
		return semver.Version{}, fmt.Errorf("%w: no framework marker type is installed", ErrUnsupportedFrameworkVersion)
	}
	t := reflect.TypeOf(d.Marker)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if text, ok := t.Field(i).Tag.Lookup("version"); ok {
				v, err := semver.Parse(text)
				if err != nil {
					return semver.Version{}, fmt.Errorf("invalid version descriptor on %s: %w", t, err)
				}
				return v, nil
			}
		}
	}
	return semver.Version{}, fmt.Errorf("%w: %s carries no version descriptor; only %s and newer are supported",
		ErrUnsupportedFrameworkVersion, t, MinimumSupportedVersion)
}

// Version returns the major version of the installed distribution.
func (d *Detector) Version() (int, error) {
	v, err := d.FullVersion()
	if err != nil {
		return 0, err
	}
	return int(v.Major), nil
}

// BuildInfo parses the build descriptor. found is false if none is packaged.
func (d *Detector) BuildInfo() (value ldvalue.Value, found bool, err error) {
	raw, found, err := d.ReadBuildInfo()
	if err != nil || !found {
		return ldvalue.Null(), found, err
	}
	value = ldvalue.Parse([]byte(raw))
	if value.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), true, fmt.Errorf("malformed build descriptor %s: %s", ui.BuildInfoResource, raw)
	}
	return value, true, nil
}
