package checks

import (
	"github.com/launchdarkly/mock-ui-environment/meta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoFrameworkChecks(t *T) {
	t.Run("version", func(t *T) {
		v, err := meta.FullVersion()
		require.NoError(t, err)
		t.Debug("framework %s, core %s", v, meta.FlowVersion())
		assert.True(t, v.AtLeast(meta.MinimumSupportedVersion),
			"framework %s is older than the oldest supported version %s", v, meta.MinimumSupportedVersion)
	})

	t.Run("rendering mode", func(t *T) {
		legacy, err := meta.IsLegacyRenderingMode()
		require.NoError(t, err)
		assert.False(t, legacy)
	})

	t.Run("build descriptor", func(t *T) {
		descriptor, found, err := meta.Default().BuildInfo()
		require.NoError(t, err)
		if !found {
			t.Skip("no build descriptor is packaged; the mock environment will supply one")
		}
		t.Debug("build descriptor: %s", descriptor.JSONString())
	})
}
