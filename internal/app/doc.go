// Package app contains the core application logic. It wires the metatype
// registry, converter, graph store and telemetry together and runs the
// convert, serve and metatypes flows, decoupled from the CLI entrypoint.
package app
