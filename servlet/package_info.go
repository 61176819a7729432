// Package servlet contains the subset of the web container contract that the hosted UI framework
// depends on, along with in-process mock implementations of it.
//
// The mocks never touch the network: a MockContext is a bag of init parameters, attributes and
// static resources, and a MockSession is an attribute map with the container's validity rules.
package servlet
