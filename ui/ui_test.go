package ui

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/launchdarkly/mock-ui-environment/servlet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUI struct {
	*Base
	initRequests []*Request
}

func (u *testUI) Init(req *Request) {
	u.initRequests = append(u.initRequests, req)
}

func newTestUI() *testUI {
	u := &testUI{}
	u.Base = NewBase(u)
	return u
}

func newTestService(t *testing.T, contextParams map[string]string, options ...ServiceOption) *Service {
	ctx := servlet.NewMockContext(nil)
	for k, v := range contextParams {
		ctx.SetInitParameter(k, v)
	}
	return NewService(servlet.NewMockConfig("test-servlet", ctx, nil), DeploymentConfiguration{}, options...)
}

func writeTokenFile(t *testing.T, content string) string {
	name := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestLookupResourceSearchesRootsInOrder(t *testing.T) {
	unregister1 := RegisterResources(fstest.MapFS{"a/x.txt": &fstest.MapFile{Data: []byte("first")}})
	unregister2 := RegisterResources(fstest.MapFS{
		"a/x.txt": &fstest.MapFile{Data: []byte("second")},
		"a/y.txt": &fstest.MapFile{Data: []byte("only")},
	})
	defer unregister2()

	data, found, err := LookupResource("a/x.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", string(data))

	unregister1()
	data, found, err = LookupResource("a/x.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", string(data))

	_, found, err = LookupResource("a/missing.txt")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCurrentInstances(t *testing.T) {
	assert.Nil(t, CurrentSession(context.Background()))
	assert.Nil(t, CurrentUI(nil)) //nolint:staticcheck

	ctx, inst := WithInstances(context.Background())
	service := newTestService(t, nil)
	session := NewSession(service)
	u := newTestUI()
	inst.SetService(service)
	inst.SetSession(session)
	inst.SetUI(u)

	assert.Same(t, service, CurrentService(ctx))
	assert.Same(t, session, CurrentSession(ctx))
	assert.Equal(t, UI(u), CurrentUI(ctx))
	assert.Same(t, inst, InstancesFrom(ctx))

	inst.Clear()
	assert.Nil(t, CurrentService(ctx))
	assert.Nil(t, CurrentSession(ctx))
	assert.Nil(t, CurrentUI(ctx))
}

func TestServiceInitWithoutBuildDescriptorFails(t *testing.T) {
	s := newTestService(t, nil)
	err := s.Init()
	assert.ErrorIs(t, err, ErrModeNotVerified)
	assert.False(t, s.IsInitialized())
}

func TestServiceInitReadsTokenFile(t *testing.T) {
	tokenFile := writeTokenFile(t, `{"productionMode":true}`)
	s := newTestService(t, map[string]string{FrontendTokenFileParam: tokenFile})

	var listenerCalls int
	s.AddInitListener(func(*Service) error {
		listenerCalls++
		return nil
	})
	require.NoError(t, s.Init())
	assert.True(t, s.IsInitialized())
	assert.True(t, s.DeploymentConfiguration().ProductionMode)
	assert.Equal(t, 1, listenerCalls)
}

func TestServiceInitRejectsMalformedTokenFile(t *testing.T) {
	tokenFile := writeTokenFile(t, `[1, 2]`)
	s := newTestService(t, map[string]string{FrontendTokenFileParam: tokenFile})
	assert.Error(t, s.Init())
}

func TestServiceInitListenerError(t *testing.T) {
	tokenFile := writeTokenFile(t, `{}`)
	s := newTestService(t, map[string]string{FrontendTokenFileParam: tokenFile})
	failure := errors.New("listener failure")
	s.AddInitListener(func(*Service) error { return failure })

	assert.ErrorIs(t, s.Init(), failure)
	assert.False(t, s.IsInitialized())
}

func TestServicePushDetector(t *testing.T) {
	s := newTestService(t, nil, WithPushDetector(func() bool { return true }))
	assert.True(t, s.IsPushAvailable())

	s = newTestService(t, nil)
	assert.False(t, s.IsPushAvailable())
}

func TestSessionRefreshTransientsCreatesLock(t *testing.T) {
	service := newTestService(t, nil)
	container := servlet.CreateMockSession(service.ServletContext())
	session := NewSession(service)

	require.NoError(t, session.RefreshTransients(container, service))
	value, found, err := container.Attribute(LockAttributeName(service))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Same(t, session.Lock(), value)
	assert.False(t, session.IsLocked())
	assert.Equal(t, "test-servlet.lock", LockAttributeName(service))
}

func TestSessionRefreshTransientsReusesStoredLock(t *testing.T) {
	service := newTestService(t, nil)
	container := servlet.CreateMockSession(service.ServletContext())
	lock := &sync.Mutex{}
	lock.Lock()
	require.NoError(t, container.SetAttribute(LockAttributeName(service), lock))

	session := NewSession(service)
	require.NoError(t, session.RefreshTransients(container, service))
	assert.Same(t, lock, session.Lock())
	assert.True(t, session.IsLocked())
}

func TestSessionRefreshTransientsRejectsNonLockAttribute(t *testing.T) {
	service := newTestService(t, nil)
	container := servlet.CreateMockSession(service.ServletContext())
	require.NoError(t, container.SetAttribute(LockAttributeName(service), "not a lock"))

	assert.Error(t, NewSession(service).RefreshTransients(container, service))
}

func TestSessionRegistryAndClose(t *testing.T) {
	service := newTestService(t, nil)
	container := servlet.CreateMockSession(service.ServletContext())
	session := NewSession(service)
	require.NoError(t, session.RefreshTransients(container, service))
	id, _ := container.ID()

	assert.Same(t, session, service.SessionByID(id))
	session.Close()
	assert.Nil(t, service.SessionByID(id))
}

func registerUnreferencedSession(t *testing.T, service *Service) string {
	container := servlet.CreateMockSession(service.ServletContext())
	require.NoError(t, NewSession(service).RefreshTransients(container, service))
	id, _ := container.ID()
	return id
}

func TestSessionRegistryHoldsWeakReferences(t *testing.T) {
	service := newTestService(t, nil)
	id := registerUnreferencedSession(t, service)

	assert.Eventually(t, func() bool {
		runtime.GC()
		return service.SessionByID(id) == nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestOpenRequiresRequest(t *testing.T) {
	u := newTestUI()
	assert.Error(t, Open(u, nil))
	assert.Error(t, Open(u, &Request{}))
	assert.False(t, u.IsAttached())
}

func TestOpenRunsLifecycle(t *testing.T) {
	service := newTestService(t, nil)
	session := NewSession(service)
	u := newTestUI()
	u.SetSession(session)
	var attached int
	u.AddAttachListener(func(UI) { attached++ })

	location, _ := url.Parse("http://localhost/app/view")
	req := &Request{URL: location}
	require.NoError(t, Open(u, req))

	assert.True(t, u.IsAttached())
	assert.Equal(t, "/app/view", u.RootPath())
	assert.Same(t, location, u.Page().Location())
	assert.Equal(t, 1, attached)
	assert.Equal(t, []*Request{req}, u.initRequests)
	assert.Equal(t, []UI{u}, session.UIs())

	assert.Error(t, Open(u, req))
}

func TestUIIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, newTestUI().ID(), newTestUI().ID())
}

func TestPageTitle(t *testing.T) {
	u := newTestUI()
	u.Page().SetTitle("Hello")
	assert.Equal(t, "Hello", u.Page().Title())
}

type fixedParser string

func (p fixedParser) SourcesFromTemplate(tag, url string) (string, error) {
	return string(p), nil
}

func TestTemplateParserReplacement(t *testing.T) {
	previous := SetTemplateParser(nil)
	defer SetTemplateParser(previous)

	assert.True(t, ReplaceDefaultTemplateParser(fixedParser("one")))
	assert.False(t, ReplaceDefaultTemplateParser(fixedParser("two")))
	source, err := TemplateSource("x-tag", "./x.js")
	require.NoError(t, err)
	assert.Equal(t, "one", source)

	assert.Equal(t, TemplateParser(fixedParser("one")), SetTemplateParser(fixedParser("three")))
	source, _ = TemplateSource("x-tag", "./x.js")
	assert.Equal(t, "three", source)
}

func TestBundledTemplateParserReadsPackagedFrontend(t *testing.T) {
	previous := SetTemplateParser(nil)
	defer SetTemplateParser(previous)
	unregister := RegisterResources(fstest.MapFS{
		"META-INF/resources/frontend/x.js": &fstest.MapFile{Data: []byte("bundled")},
	})
	defer unregister()

	source, err := TemplateSource("x-tag", "./x.js")
	require.NoError(t, err)
	assert.Equal(t, "bundled", source)

	_, err = TemplateSource("y-tag", "@scope/y.js")
	assert.Error(t, err)
}

func TestRestoreTemplateParser(t *testing.T) {
	previous := SetTemplateParser(fixedParser("before"))
	defer SetTemplateParser(previous)

	SetTemplateParser(fixedParser("mine"))
	assert.False(t, RestoreTemplateParser(fixedParser("someone else"), fixedParser("before")))
	assert.Equal(t, TemplateParser(fixedParser("mine")), CurrentTemplateParser())

	assert.True(t, RestoreTemplateParser(fixedParser("mine"), fixedParser("before")))
	assert.Equal(t, TemplateParser(fixedParser("before")), CurrentTemplateParser())

	SetTemplateParser(fixedParser("mine"))
	assert.True(t, RestoreTemplateParser(fixedParser("mine"), nil))
	assert.Equal(t, defaultTemplateParser, CurrentTemplateParser())
}
