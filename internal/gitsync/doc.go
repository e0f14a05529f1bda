// Package gitsync brings a configured branch up to date with its remote and
// optionally rebases it onto the remote default branch, stashing local
// changes around the rebase when the user agrees.
package gitsync
