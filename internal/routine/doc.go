// Package routine sequences the daily startup stages and stops at the first
// stage that fails.
package routine
