package checks

import (
	"fmt"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/templates"

	"github.com/stretchr/testify/require"
)

func DoTemplateChecks(t *T) {
	project := t.Project()
	if len(project.Templates) == 0 {
		t.Skip("no templates are listed in " + config.FileName)
	}
	resolver := templates.NewResolverFromConfig(project)

	for _, tc := range project.Templates {
		t.Run(fmt.Sprintf("<%s> %s", tc.Tag, tc.URL), func(t *T) {
			source, err := resolver.Resolve(tc.Tag, tc.URL)
			require.NoError(t, err)
			t.Debug("resolved %d bytes", len(source))
		})
	}
}

func usesTemplates(list []config.TemplateCheck, match func(url string) bool) bool {
	for _, tc := range list {
		if match(tc.URL) {
			return true
		}
	}
	return false
}
