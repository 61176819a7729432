package checks

import (
	"strings"

	helpers "github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
)

func DoProjectChecks(t *T) {
	project := t.Project()
	t.Debug("module %s at %s", project.ModulePath, project.Root)

	t.Run("resource directories", func(t *T) {
		if len(project.ResourceDirs) == 0 {
			t.Skip("no resource directories are configured")
		}
		for _, dir := range project.ResourceDirs {
			assert.True(t, helpers.FilePathExists(dir), "resource directory %s does not exist", dir)
		}
	})

	t.Run("frontend directory", func(t *T) {
		if !usesTemplates(project.Templates, isRelativeModule) {
			t.Skip("no relative templates are configured")
		}
		assert.True(t, helpers.FilePathExists(project.FrontendDir),
			"frontend directory %s does not exist", project.FrontendDir)
	})

	t.Run("frontend dependencies", func(t *T) {
		if !usesTemplates(project.Templates, func(url string) bool { return !isRelativeModule(url) }) {
			t.Skip("no package templates are configured")
		}
		assert.True(t, helpers.FilePathExists(project.NodeModulesDir),
			"%s does not exist; install the frontend dependencies first", project.NodeModulesDir)
	})
}

func isRelativeModule(url string) bool {
	return strings.HasPrefix(url, "./")
}
