package mockenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/internal/compat"
	"github.com/launchdarkly/mock-ui-environment/meta"
	"github.com/launchdarkly/mock-ui-environment/servlet"
	"github.com/launchdarkly/mock-ui-environment/templates"
	"github.com/launchdarkly/mock-ui-environment/ui"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// DefaultLocation is the page location of the root UI, since no browser ever reports one.
const DefaultLocation = "http://localhost:8080"

// ServletName is the name of the mock servlet, and therefore of the service.
const ServletName = "mock-ui"

// ErrAlreadySetUp is returned by Setup when the parent context already carries a live environment.
var ErrAlreadySetUp = errors.New("a mock environment is already set up for this context; call Teardown first")

// Env is one mock execution environment. It owns the session and root UI published in its
// context until Teardown.
type Env struct {
	servletContext   *servlet.MockContext
	servletConfig    *servlet.MockConfig
	service          *ui.Service
	containerSession *servlet.MockSession
	session          *ui.Session
	root             ui.UI
	instances        *ui.Instances
	tokenFile        string
	unregister       []func()
	restoreParser    func()
	loggers          ldlog.Loggers
	tornDown         bool
	lock             sync.Mutex
}

type envKey struct{}

func fromContext(ctx context.Context) *Env {
	if ctx == nil {
		return nil
	}
	env, _ := ctx.Value(envKey{}).(*Env)
	return env
}

// FromContext returns the environment carried by ctx, or nil.
func FromContext(ctx context.Context) *Env {
	return fromContext(ctx)
}

// Setup creates a mock environment and returns a child of ctx in which its service, session and
// root UI are current. A nil ctx means context.Background(). On error the returned context and
// Env are nil and nothing set up so far is left behind.
func Setup(ctx context.Context, opts ...Option) (context.Context, *Env, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if existing := fromContext(ctx); existing != nil && existing.IsActive() {
		return nil, nil, ErrAlreadySetUp
	}

	o := options{
		uiFactory:      DefaultUIFactory,
		serviceFactory: defaultServiceFactory,
		loggers:        ldlog.NewDisabledLoggers(),
		detector:       meta.Default(),
		location:       DefaultLocation,
	}
	for _, opt := range opts {
		opt(&o)
	}

	env := &Env{loggers: o.loggers}
	ctx, err := env.setup(ctx, o)
	if err != nil {
		env.Teardown()
		return nil, nil, err
	}
	return ctx, env, nil
}

func (e *Env) setup(parent context.Context, o options) (context.Context, error) {
	for _, fsys := range o.resources {
		e.unregister = append(e.unregister, ui.RegisterResources(fsys))
	}

	// Refuse to run against a framework configuration the environment cannot emulate.
	version, err := o.detector.FullVersion()
	if err != nil {
		return nil, err
	}
	if _, err := o.detector.IsLegacyRenderingMode(); err != nil {
		return nil, err
	}
	location, err := url.Parse(o.location)
	if err != nil {
		return nil, fmt.Errorf("invalid page location %q: %w", o.location, err)
	}

	// Servlet container
	e.servletContext = servlet.NewMockContext(firstOrNil(o.resources))
	e.servletConfig = servlet.NewMockConfig(ServletName, e.servletContext, nil)
	if err := e.mockBuildInfo(o.detector); err != nil {
		return nil, err
	}

	// Service
	e.service = o.serviceFactory(e.servletConfig, ui.DeploymentConfiguration{},
		ui.WithPushDetector(func() bool { return false }))
	if e.service == nil {
		return nil, errors.New("service factory returned nil")
	}
	if err := e.service.Init(); err != nil {
		return nil, fmt.Errorf("service initialization failed: %w", err)
	}
	e.installTemplateResolver(o.resolver)

	ctx, instances := ui.WithInstances(parent)
	ctx = context.WithValue(ctx, envKey{}, e)
	e.lock.Lock()
	e.instances = instances
	e.lock.Unlock()
	instances.SetService(e.service)

	// Session. The per-session lock is held from here on, as a container holds it while it
	// dispatches a request.
	e.containerSession = servlet.CreateMockSession(e.servletContext)
	if o.maxInactiveInterval > 0 {
		e.containerSession.SetMaxInactiveInterval(o.maxInactiveInterval)
	}
	lock := &sync.Mutex{}
	lock.Lock()
	if err := e.containerSession.SetAttribute(ui.LockAttributeName(e.service), lock); err != nil {
		return nil, err
	}
	e.session = ui.NewSession(e.service)
	if err := e.session.RefreshTransients(e.containerSession, e.service); err != nil {
		return nil, fmt.Errorf("session refresh failed: %w", err)
	}
	instances.SetSession(e.session)

	// Root UI
	root := o.uiFactory(ctx)
	if root == nil || root.UIBase() == nil {
		return nil, errors.New("UI factory returned a UI without framework state; create it with ui.NewBase")
	}
	e.lock.Lock()
	e.root = root
	e.lock.Unlock()
	instances.SetUI(root)
	root.UIBase().SetSession(e.session)

	shim := compat.For(meta.FlowVersion())
	if err := shim.PatchLocation(root, location); err != nil {
		return nil, err
	}
	if err := shim.PatchRootPath(root, ""); err != nil {
		return nil, err
	}
	if err := shim.RunInit(root, nil); err != nil {
		return nil, err
	}

	id, _ := e.containerSession.ID()
	e.loggers.Debugf("Mock environment ready: framework %s, service %q, session %s, UI %d",
		version, e.service.Name(), id, root.UIBase().ID())
	return ctx, nil
}

// mockBuildInfo makes the service's build mode verification pass in projects that package no build
// descriptor, such as component libraries, by pointing it at an empty token file.
func (e *Env) mockBuildInfo(detector *meta.Detector) error {
	_, found, err := detector.BuildInfo()
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	f, err := os.CreateTemp("", "build-info*.json")
	if err != nil {
		return fmt.Errorf("cannot create build info token file: %w", err)
	}
	e.tokenFile = f.Name()
	if _, err := f.WriteString("{}"); err != nil {
		f.Close()
		return fmt.Errorf("cannot write build info token file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	e.servletContext.SetInitParameter(ui.FrontendTokenFileParam, e.tokenFile)
	return nil
}

// installTemplateResolver installs an explicitly requested resolver unconditionally. The implicit
// resolver for the enclosing module only replaces the framework's default parser, so a parser
// installed by the application stays in place. Either way Teardown puts back the previous parser.
func (e *Env) installTemplateResolver(r *templates.Resolver) {
	if r != nil {
		e.restoreParser = templates.Override(r)
		e.loggers.Debugf("Installed template resolver for frontend directory %s", r.FrontendDir)
		return
	}
	if cfg, err := config.Resolve("."); err == nil {
		r = templates.NewResolverFromConfig(cfg)
	} else {
		wd, _ := os.Getwd()
		r = templates.NewResolver(wd)
	}
	if templates.Install(r) {
		e.restoreParser = func() { ui.RestoreTemplateParser(r, nil) }
		e.loggers.Debugf("Installed template resolver for frontend directory %s", r.FrontendDir)
	}
}

// Teardown clears the current instances and releases the session and root UI. It is idempotent.
func (e *Env) Teardown() {
	e.lock.Lock()
	if e.tornDown {
		e.lock.Unlock()
		return
	}
	e.tornDown = true
	instances, session, containerSession := e.instances, e.session, e.containerSession
	tokenFile, unregister, restoreParser := e.tokenFile, e.unregister, e.restoreParser
	e.instances, e.session, e.containerSession, e.root, e.service = nil, nil, nil, nil, nil
	e.tokenFile, e.unregister, e.restoreParser = "", nil, nil
	e.lock.Unlock()

	if instances != nil {
		instances.Clear()
	}
	if session != nil {
		session.Close()
	}
	if containerSession != nil {
		containerSession.Destroy()
	}
	if tokenFile != "" {
		if err := os.Remove(tokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.loggers.Warnf("Could not remove build info token file %s: %s", tokenFile, err)
		}
	}
	for _, f := range unregister {
		f()
	}
	if restoreParser != nil {
		restoreParser()
	}
	e.loggers.Debug("Mock environment torn down")
}

// Teardown tears down the environment carried by ctx. Without one it does nothing, so it is safe
// to call from cleanup code whether or not Setup succeeded.
func Teardown(ctx context.Context) {
	if env := fromContext(ctx); env != nil {
		env.Teardown()
	}
}

// SetupT sets up an environment for a test and tears it down when the test and its subtests end.
func SetupT(t testing.TB, opts ...Option) (context.Context, *Env) {
	t.Helper()
	ctx, env, err := Setup(context.Background(), opts...)
	if err != nil {
		t.Fatalf("mock environment setup failed: %s", err)
	}
	t.Cleanup(env.Teardown)
	return ctx, env
}

// IsActive reports whether Setup completed and Teardown has not been called yet.
func (e *Env) IsActive() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return !e.tornDown && e.root != nil
}

// Service returns the service, or nil after Teardown.
func (e *Env) Service() *ui.Service {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.service
}

// Session returns the framework session, or nil after Teardown.
func (e *Env) Session() *ui.Session {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.session
}

// ContainerSession returns the mock container session, or nil after Teardown.
func (e *Env) ContainerSession() *servlet.MockSession {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.containerSession
}

// UI returns the root UI, or nil after Teardown.
func (e *Env) UI() ui.UI {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.root
}

// ServletContext returns the mock servlet context.
func (e *Env) ServletContext() *servlet.MockContext {
	return e.servletContext
}

// CurrentSession returns the current session of ctx, or nil.
func CurrentSession(ctx context.Context) *ui.Session {
	return ui.CurrentSession(ctx)
}

// CurrentUI returns the current root UI of ctx, or nil.
func CurrentUI(ctx context.Context) ui.UI {
	return ui.CurrentUI(ctx)
}

// CurrentService returns the current service of ctx, or nil.
func CurrentService(ctx context.Context) *ui.Service {
	return ui.CurrentService(ctx)
}

func firstOrNil(resources []fs.FS) fs.FS {
	if len(resources) == 0 {
		return nil
	}
	return resources[0]
}
