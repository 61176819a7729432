// Package mockenv sets up and tears down a mock execution environment in which UI components can be
// tested without a web container, an HTTP session or a browser.
//
// Setup builds a mock servlet context, a service, a container session and a framework session,
// creates the root UI, and publishes all of them as the "current" instances of the returned
// context.Context. Code under test uses the regular ui.CurrentSession / ui.CurrentUI accessors
// and cannot tell the difference from a real request.
//
//	func TestMyView(t *testing.T) {
//	    ctx, env := mockenv.SetupT(t)
//	    view := views.NewMyView(ctx)
//	    ...
//	}
//
// The Env returned by Setup owns the session and the root UI until Teardown. The framework's own
// session registry only references sessions weakly, so without that ownership they could be
// collected in the middle of a test.
//
// Each Setup creates a fresh environment, so tests on different goroutines do not interfere. A
// context that already carries a live environment cannot be set up again until Teardown is called.
package mockenv
