// Package strategy provides move pickers that drive a game without a human.
//
// Cycle, Random and Greedy are built in. Script wraps a small JavaScript
// function run in a sandboxed goja runtime, so play styles can be tried
// without rebuilding. All strategies return ErrNoMove once no direction
// changes the grid.
package strategy
