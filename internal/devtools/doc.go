// Package devtools runs the development-mode inspection server: an HTTP
// API exposing the live component tree and window state, a Prometheus
// metrics endpoint, a WebSocket event stream carrying flush summaries and
// asset-change notifications, and a file watcher that invalidates cached
// assets on edit.
//
// The server binds to localhost by default and is not meant to be
// reachable from outside the developer's machine.
package devtools
