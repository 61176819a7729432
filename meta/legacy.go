package meta

import (
	"fmt"

	"github.com/launchdarkly/mock-ui-environment/semver"
)

// IsLegacyRenderingMode always returns false once the environment has been verified, since the
// legacy rendering mode is not supported at all. Before that it checks, for framework 14, that
// neither the build descriptor nor the packaged resources indicate legacy mode; either one is a
// fatal ErrLegacyModeUnsupported.
func (d *Detector) IsLegacyRenderingMode() (bool, error) {
	v, err := d.FullVersion()
	if err != nil {
		return false, err
	}
	if !v.AtLeast(MinimumSupportedVersion) {
		return false, fmt.Errorf("%w: only %s and newer are supported, but got %s",
			ErrUnsupportedFrameworkVersion, MinimumSupportedVersion, v)
	}
	if v.Major == 14 {
		if err := d.checkNotLegacyMode(); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (d *Detector) checkNotLegacyMode() error {
	// A packaged application ships the build descriptor, which states the mode explicitly.
	descriptor, found, err := d.BuildInfo()
	if err != nil {
		return err
	}
	if found && descriptor.GetByKey("compatibilityMode").BoolValue() {
		return fmt.Errorf("%w: build descriptor is set to compatibility mode: %s. %s",
			ErrLegacyModeUnsupported, descriptor.JSONString(), legacyModeRemediation)
	}

	// Component modules have no descriptor; the legacy engine's artifact gives the mode away.
	if d.FindResource != nil {
		_, found, err := d.FindResource(LegacyEngineResource)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: the legacy engine artifact %s is present, indicating compatibility mode. %s",
				ErrLegacyModeUnsupported, LegacyEngineResource, legacyModeRemediation)
		}
	}
	return nil
}

// FullVersion returns the installed distribution version using the default Detector.
func FullVersion() (semver.Version, error) {
	return defaultDetector.FullVersion()
}

// Version returns the installed distribution major version using the default Detector.
func Version() (int, error) {
	return defaultDetector.Version()
}

// IsLegacyRenderingMode runs the legacy mode guards using the default Detector.
func IsLegacyRenderingMode() (bool, error) {
	return defaultDetector.IsLegacyRenderingMode()
}
