package checks

import (
	"os"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/framework"
	"github.com/launchdarkly/mock-ui-environment/ui"
)

// RunSuite runs all diagnostics against the project described by project.
func RunSuite(
	project *config.Resolved,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		// The framework reads packaged resources through the process-wide lookup, so the
		// project's resource directories must be visible to every check.
		for _, dir := range project.ResourceDirs {
			c.Defer(ui.RegisterResources(os.DirFS(dir)))
		}

		t := &T{context: c, project: project}
		t.Run("framework", DoFrameworkChecks)
		t.Run("project layout", DoProjectChecks)
		t.Run("templates", DoTemplateChecks)
		t.Run("session lifecycle", DoSessionChecks)
	})
}
