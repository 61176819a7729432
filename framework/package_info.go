// Package framework contains the check runner used by the environment diagnostics.
//
// The model is a tree of named checks, each with a Context similar to Go's *testing.T: a check
// can record errors, fail, skip, capture debug output and defer cleanup work. Results are
// accumulated for the whole tree and reported to a TestLogger as checks start and finish.
//
// Domain-specific code provides the checks and a domain-specific API on top of the Context.
package framework
