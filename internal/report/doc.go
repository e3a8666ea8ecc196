// Package report renders finished runs.
//
// Every reporter implements [Reporter] and receives a copy of the run's
// history together with the steady-state index and the infection cost:
//
//   - [Terminal]: asciigraph panels written to an io.Writer
//   - [SVG]: a three-panel chart saved to disk
//   - [Prometheus]: a text-format metrics snapshot
//
// Reporters never see the model itself, only the [plague.History] copy.
package report
