package checks

import (
	"context"

	"github.com/launchdarkly/mock-ui-environment/config"
	"github.com/launchdarkly/mock-ui-environment/framework"
	"github.com/launchdarkly/mock-ui-environment/mockenv"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// T represents a check or subcheck in the diagnostic suite.
//
// It implements the same basic functionality as Go's testing.T, but outside of the Go test
// runner. To make assertions, pass the *T to the assert and require packages as if it were a
// *testing.T.
//
// Every T knows the configuration of the project being checked, and can set up mock environments
// for it that are torn down when the check ends.
type T struct {
	context *framework.Context
	project *config.Resolved
}

// Errorf is called by assertions to log a check failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a check should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subcheck.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, project: t.project})
	})
}

// Debug logs some debug output for the check. The output is passed to the test logger at the end
// of the check.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Skip skips the rest of the check, giving a reason.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Project returns the configuration of the project being checked.
func (t *T) Project() *config.Resolved {
	return t.project
}

// Loggers returns leveled loggers captured as debug output of the check.
func (t *T) Loggers() ldlog.Loggers {
	return t.context.Loggers()
}

// Defer schedules f to run when the check ends.
func (t *T) Defer(f func()) {
	t.context.Defer(f)
}

// SetupEnvironment sets up a mock environment for the project. It is torn down when the check
// ends; the check fails and exits immediately if setup fails.
func (t *T) SetupEnvironment(opts ...mockenv.Option) (context.Context, *mockenv.Env) {
	allOpts := append([]mockenv.Option{mockenv.WithConfig(t.project), mockenv.WithLoggers(t.Loggers())}, opts...)
	ctx, env, err := mockenv.Setup(context.Background(), allOpts...)
	require.NoError(t, err, "mock environment setup failed")
	t.Defer(env.Teardown)
	return ctx, env
}
