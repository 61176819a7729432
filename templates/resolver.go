package templates

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/ui"

	"github.com/alessio/shellescape"
)

// PackagedFrontendPrefix is the resource directory mirroring frontend/ in packaged artifacts.
const PackagedFrontendPrefix = "META-INF/resources/frontend/"

var (
	// ErrMissingDependencyInstall means the node_modules directory does not exist at all: the
	// environment was never prepared, as opposed to one file being missing.
	ErrMissingDependencyInstall = errors.New("frontend dependencies are not installed")

	// ErrTemplateSourceNotFound means no step of the resolution chain found the template.
	ErrTemplateSourceNotFound = errors.New("can't load template sources")
)

// Resolver finds template sources. The zero value is not usable; use NewResolver.
type Resolver struct {
	// Registry holds the custom loaders; nil means DefaultRegistry.
	Registry *Registry
	// Root is the project root, used in remediation hints.
	Root string
	// FrontendDir holds the sources of relative module references.
	FrontendDir string
	// NodeModulesDir holds installed packages.
	NodeModulesDir string
	// Resources looks up packaged resources; nil means ui.LookupResource.
	Resources func(name string) ([]byte, bool, error)
}

// NewResolver creates a resolver for a project with the conventional layout under root.
func NewResolver(root string) *Resolver {
	return &Resolver{
		Root:           root,
		FrontendDir:    filepath.Join(root, "frontend"),
		NodeModulesDir: filepath.Join(root, "node_modules"),
	}
}

// NewResolverFromConfig creates a resolver for a project's resolved configuration.
func NewResolverFromConfig(cfg *config.Resolved) *Resolver {
	return &Resolver{
		Root:           cfg.Root,
		FrontendDir:    cfg.FrontendDir,
		NodeModulesDir: cfg.NodeModulesDir,
	}
}

// Resolve returns the source text of the template for the component with the given tag, loaded
// from url.
func (r *Resolver) Resolve(tag, url string) (string, error) {
	registry := r.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	for i, l := range registry.Loaders() {
		source, found, err := l.Load(tag, url)
		if err != nil {
			return "", fmt.Errorf("custom loader #%d failed for <%s> %s: %w", i+1, tag, url, err)
		}
		if found {
			return source, nil
		}
	}

	if strings.HasPrefix(url, "./") {
		relative := strings.TrimPrefix(url, "./")

		source, found, err := readFile(filepath.Join(r.FrontendDir, filepath.FromSlash(relative)))
		if err != nil || found {
			return source, err
		}

		lookup := r.Resources
		if lookup == nil {
			lookup = ui.LookupResource
		}
		data, found, err := lookup(path.Join(PackagedFrontendPrefix, relative))
		if err != nil {
			return "", err
		}
		if found {
			return string(data), nil
		}
	} else {
		if _, err := os.Stat(r.NodeModulesDir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s folder doesn't exist, cannot load template sources for <%s> %s. "+
					"Please make sure that the folder is populated by running %s before the tests",
					ErrMissingDependencyInstall, r.NodeModulesDir, tag, url, r.installCommand())
			}
			return "", err
		}
		source, found, err := readFile(filepath.Join(r.NodeModulesDir, filepath.FromSlash(url)))
		if err != nil || found {
			return source, err
		}
	}

	return "", fmt.Errorf("%w for <%s> %s. Please:\n"+
		" 1. make sure that the %s folder is populated, by running %s\n"+
		" 2. as a workaround, register your own loader with templates.RegisterLoader which is able to load the template",
		ErrTemplateSourceNotFound, tag, url, r.NodeModulesDir, r.installCommand())
}

// SourcesFromTemplate implements ui.TemplateParser.
func (r *Resolver) SourcesFromTemplate(tag, url string) (string, error) {
	return r.Resolve(tag, url)
}

func (r *Resolver) installCommand() string {
	var b []string
	for _, arg := range []string{"npm", "install", "--prefix", r.Root} {
		b = append(b, shellescape.Quote(arg))
	}
	return strings.Join(b, " ")
}

func readFile(name string) (string, bool, error) {
	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	if info.IsDir() {
		return "", false, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Install makes r the framework's template parser, unless a parser other than the framework's
// default has already been installed. It reports whether r was installed.
func Install(r *Resolver) bool {
	return ui.ReplaceDefaultTemplateParser(r)
}

// Override makes r the framework's template parser regardless of the parser currently installed.
// The returned function puts back the replaced parser, unless yet another parser has been
// installed in the meantime.
func Override(r *Resolver) (restore func()) {
	previous := ui.SetTemplateParser(r)
	return func() {
		ui.RestoreTemplateParser(r, previous)
	}
}
