// Package cli defines the netgraph command tree. It translates flags and
// arguments into an app.Config and dispatches to the app's operations.
package cli
