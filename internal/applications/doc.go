// Package applications launches configured desktop applications through the
// platform launcher and optionally waits for them to exit.
package applications
