// Package app contains the application logic behind the netgraph tool. It
// wires configuration, logging, the layer registry and telemetry together
// and exposes the operations the CLI runs, decoupled from any specific
// entrypoint.
package app
