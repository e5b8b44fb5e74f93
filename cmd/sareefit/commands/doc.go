// Package commands defines the sareefit CLI and wires dependencies for subcommands.
//
// Commands
//
//   - serve    Run the HTTP and WebSocket API
//   - measure  Analyse a landmarks JSON file
//   - detect   Detect a pose in a photo, optionally writing an overlay image
//
// The root command loads configuration and the logger before any subcommand
// runs. Each subcommand builds only the parts of the app it needs.
package commands
