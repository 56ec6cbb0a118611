// Package environment exposes the Coffee Shop front-end's per-environment
// settings: the backend API base URL and the Auth0 coordinates used to start
// a login. The record for a deployment target is compiled in, may be
// overlaid from a file or the process environment, and is validated once
// when loaded. After that it is an immutable value that any number of
// goroutines can read without coordination.
package environment
