// Package cli provides the interactive studysync command-line client.
//
// It wires configuration, the local cache, the remote document store client
// and the synchronization services behind a small REPL. The client works
// offline: every command reads and writes the local cache first, and a
// background watcher switches the session online when the server answers
// pings, pushing records created while offline.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
