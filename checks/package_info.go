// Package checks contains the environment diagnostics run by the uimock-check command, and their
// supporting API.
//
// Each check verifies one precondition of the mock environment against a real project: the
// installed framework version, the rendering mode, the project layout, template resolution and the
// session lifecycle. Check infrastructure that is not specific to the UI domain is in the
// lower-level framework package.
package checks
