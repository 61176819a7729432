package ui

import (
	"fmt"
	"strings"
	"sync"
)

// TemplateParser provides the source text of client-side templates.
//
// tag is the element name of the component, for example "my-view"; url is the module reference,
// for example "./view/my-view.js" or "@ui/ui-button.js".
type TemplateParser interface {
	SourcesFromTemplate(tag, url string) (string, error)
}

type bundledTemplateParser struct{}

// SourcesFromTemplate reads relative modules from the packaged frontend resources. The
// production bundle contains nothing else.
func (bundledTemplateParser) SourcesFromTemplate(tag, url string) (string, error) {
	if strings.HasPrefix(url, "./") {
		data, found, err := LookupResource("META-INF/resources/frontend/" + strings.TrimPrefix(url, "./"))
		if err != nil {
			return "", err
		}
		if found {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("no bundled template sources for <%s> %s", tag, url)
}

var defaultTemplateParser TemplateParser = bundledTemplateParser{}

var templateParser struct {
	current TemplateParser
	lock    sync.RWMutex
}

func init() {
	templateParser.current = defaultTemplateParser
}

// CurrentTemplateParser returns the process-wide template parser.
func CurrentTemplateParser() TemplateParser {
	templateParser.lock.RLock()
	defer templateParser.lock.RUnlock()
	return templateParser.current
}

// ReplaceDefaultTemplateParser installs p if the default parser is still active, and reports
// whether it did.
func ReplaceDefaultTemplateParser(p TemplateParser) bool {
	templateParser.lock.Lock()
	defer templateParser.lock.Unlock()
	if templateParser.current != defaultTemplateParser {
		return false
	}
	templateParser.current = p
	return true
}

// SetTemplateParser installs p unconditionally and returns the previous parser. A nil p restores
// the default parser.
func SetTemplateParser(p TemplateParser) TemplateParser {
	if p == nil {
		p = defaultTemplateParser
	}
	templateParser.lock.Lock()
	defer templateParser.lock.Unlock()
	previous := templateParser.current
	templateParser.current = p
	return previous
}

// TemplateSource returns the template source for a component through the current parser.
func TemplateSource(tag, url string) (string, error) {
	return CurrentTemplateParser().SourcesFromTemplate(tag, url)
}

// RestoreTemplateParser reinstalls previous if installed is still the current parser, and reports
// whether it did. A nil previous means the default parser.
func RestoreTemplateParser(installed, previous TemplateParser) bool {
	if previous == nil {
		previous = defaultTemplateParser
	}
	templateParser.lock.Lock()
	defer templateParser.lock.Unlock()
	if templateParser.current != installed {
		return false
	}
	templateParser.current = previous
	return true
}
