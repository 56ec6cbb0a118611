// Package application wires the environment provider, HTTP handlers,
// router and server together so the main package only deals with CLI
// parsing and shutdown.
package application
