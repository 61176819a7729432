package ui

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"weak"

	"github.com/launchdarkly/mock-ui-environment/servlet"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// FrontendTokenFileParam is the init parameter naming a build descriptor file on disk, used when
// no build descriptor is packaged as a resource.
const FrontendTokenFileParam = "ui.frontend.token.file"

// PushTransportResource is the resource whose presence indicates that the push transport is
// installed.
const PushTransportResource = "META-INF/resources/push/transport.js"

// ErrModeNotVerified is returned by Service.Init when the service cannot find any build
// descriptor, which means the frontend build never ran.
var ErrModeNotVerified = errors.New("unable to determine the frontend build mode: no build descriptor and no token file")

// DeploymentConfiguration is the service configuration derived from init parameters and the build
// descriptor.
type DeploymentConfiguration struct {
	ProductionMode bool
	InitParameters map[string]string
}

// Service is the framework's per-application service. It owns the registry of live sessions.
type Service struct {
	config        servlet.Config
	deployment    DeploymentConfiguration
	pushDetector  func() bool
	initListeners []func(*Service) error
	sessions      map[string]weak.Pointer[Session]
	initialized   bool
	lock          sync.Mutex
}

// ServiceOption customizes a Service created by NewService.
type ServiceOption func(*Service)

// WithPushDetector replaces the probe that decides whether the push transport is available.
func WithPushDetector(detector func() bool) ServiceOption {
	return func(s *Service) {
		s.pushDetector = detector
	}
}

// NewService creates a service for the servlet described by config. The service is unusable until
// Init succeeds.
func NewService(config servlet.Config, deployment DeploymentConfiguration, options ...ServiceOption) *Service {
	s := &Service{
		config:       config,
		deployment:   deployment,
		pushDetector: detectPushTransport,
		sessions:     make(map[string]weak.Pointer[Session]),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Name is the service name, which is the servlet name.
func (s *Service) Name() string {
	return s.config.ServletName()
}

func (s *Service) ServletContext() servlet.Context {
	return s.config.ServletContext()
}

func (s *Service) DeploymentConfiguration() DeploymentConfiguration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.deployment
}

// AddInitListener registers a hook called by Init after the build mode has been verified.
func (s *Service) AddInitListener(listener func(*Service) error) {
	s.lock.Lock()
	s.initListeners = append(s.initListeners, listener)
	s.lock.Unlock()
}

// Init verifies the frontend build mode and runs the init listeners.
func (s *Service) Init() error {
	descriptor, err := s.readBuildDescriptor()
	if err != nil {
		return err
	}
	s.lock.Lock()
	if descriptor.GetByKey("productionMode").BoolValue() {
		s.deployment.ProductionMode = true
	}
	listeners := append([]func(*Service) error(nil), s.initListeners...)
	s.lock.Unlock()

	for _, l := range listeners {
		if err := l(s); err != nil {
			return fmt.Errorf("service init listener failed: %w", err)
		}
	}

	s.lock.Lock()
	s.initialized = true
	s.lock.Unlock()
	return nil
}

func (s *Service) readBuildDescriptor() (ldvalue.Value, error) {
	data, found, err := BuildInfo()
	if err != nil {
		return ldvalue.Null(), err
	}
	if !found {
		tokenFile := s.config.InitParameter(FrontendTokenFileParam)
		if tokenFile == "" {
			tokenFile = s.ServletContext().InitParameter(FrontendTokenFileParam)
		}
		if tokenFile == "" {
			return ldvalue.Null(), ErrModeNotVerified
		}
		bytes, err := os.ReadFile(tokenFile)
		if err != nil {
			return ldvalue.Null(), fmt.Errorf("%w: cannot read token file: %s", ErrModeNotVerified, err)
		}
		data = string(bytes)
	}
	value := ldvalue.Parse([]byte(data))
	if value.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), fmt.Errorf("build descriptor is not a JSON object: %s", data)
	}
	return value, nil
}

// IsInitialized reports whether Init has succeeded.
func (s *Service) IsInitialized() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.initialized
}

// IsPushAvailable reports whether the push transport can be used.
func (s *Service) IsPushAvailable() bool {
	return s.pushDetector()
}

// SessionByID returns a registered session if it is still alive. The service only holds weak
// references: whoever created the session is responsible for keeping it alive.
func (s *Service) SessionByID(id string) *Session {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.sessions[id]
	if !ok {
		return nil
	}
	session := p.Value()
	if session == nil {
		delete(s.sessions, id)
	}
	return session
}

func (s *Service) registerSession(id string, session *Session) {
	s.lock.Lock()
	s.sessions[id] = weak.Make(session)
	s.lock.Unlock()
}

func (s *Service) unregisterSession(id string) {
	s.lock.Lock()
	delete(s.sessions, id)
	s.lock.Unlock()
}

func detectPushTransport() bool {
	_, found, err := LookupResource(PushTransportResource)
	return err == nil && found
}
