package mockenv

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/meta"
	"github.com/launchdarkly/mock-ui-environment/servlet"
	"github.com/launchdarkly/mock-ui-environment/templates"
	"github.com/launchdarkly/mock-ui-environment/ui"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// UIFactory creates the root UI of a test. ctx already carries the current service and session.
type UIFactory func(ctx context.Context) ui.UI

// ServiceFactory creates the service. It must pass options on to ui.NewService, since Setup uses
// them to switch off container features that make no sense in-process.
type ServiceFactory func(config servlet.Config, deployment ui.DeploymentConfiguration, options ...ui.ServiceOption) *ui.Service

type mockUI struct {
	*ui.Base
}

func (u *mockUI) Init(*ui.Request) {}

// DefaultUIFactory creates a UI that does nothing when initialized.
func DefaultUIFactory(context.Context) ui.UI {
	u := &mockUI{}
	u.Base = ui.NewBase(u)
	return u
}

type options struct {
	uiFactory           UIFactory
	serviceFactory      ServiceFactory
	loggers             ldlog.Loggers
	detector            *meta.Detector
	location            string
	resolver            *templates.Resolver
	resources           []fs.FS
	maxInactiveInterval time.Duration
}

// Option customizes Setup.
type Option func(*options)

// WithUIFactory sets the factory for the root UI. The default is DefaultUIFactory.
func WithUIFactory(f UIFactory) Option {
	return func(o *options) {
		o.uiFactory = f
	}
}

// WithServiceFactory sets the factory for the service. The default is ui.NewService.
func WithServiceFactory(f ServiceFactory) Option {
	return func(o *options) {
		o.serviceFactory = f
	}
}

// WithLoggers sets the loggers for setup and teardown diagnostics. The default is disabled.
func WithLoggers(loggers ldlog.Loggers) Option {
	return func(o *options) {
		o.loggers = loggers
	}
}

// WithMeta sets the framework detector. The default is meta.Default().
func WithMeta(d *meta.Detector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithLocation sets the page location reported for the root UI. The default is DefaultLocation.
func WithLocation(location string) Option {
	return func(o *options) {
		o.location = location
	}
}

// WithTemplateResolver sets the resolver installed as the framework's template parser for the
// lifetime of the environment; Teardown puts back the previous parser. The parser is process-wide,
// so environments with different resolvers must not overlap. By default a resolver for the
// enclosing Go module is installed, but only if no other parser is installed.
func WithTemplateResolver(r *templates.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithResources adds packaged resources to the framework's resource lookup for the lifetime of the
// environment. The lookup is process-wide, so tests running in parallel see each other's resources.
func WithResources(fsys fs.FS) Option {
	return func(o *options) {
		o.resources = append(o.resources, fsys)
	}
}

// WithMaxInactiveInterval sets the timeout of the mock container session.
func WithMaxInactiveInterval(d time.Duration) Option {
	return func(o *options) {
		o.maxInactiveInterval = d
	}
}

// WithConfig applies a project configuration: its page location, session timeout, resource
// directories and template directories. Options given after it override its settings.
func WithConfig(cfg *config.Resolved) Option {
	return func(o *options) {
		if cfg.Location != "" {
			o.location = cfg.Location
		}
		if cfg.MaxInactiveInterval > 0 {
			o.maxInactiveInterval = cfg.MaxInactiveInterval
		}
		for _, dir := range cfg.ResourceDirs {
			o.resources = append(o.resources, os.DirFS(dir))
		}
		o.resolver = templates.NewResolverFromConfig(cfg)
	}
}

func defaultServiceFactory(config servlet.Config, deployment ui.DeploymentConfiguration, options ...ui.ServiceOption) *ui.Service {
	return ui.NewService(config, deployment, options...)
}
