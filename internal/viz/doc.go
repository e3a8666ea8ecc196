// Package viz provides the live terminal view of a running simulation.
//
// The view is a bubbletea program that advances a [sim.Runner] on every
// tick and redraws the three curves with asciigraph:
//
//	m := viz.NewModel(factory, cfg, "pid")
//	tea.NewProgram(m).Run()
//
// Keys: space pauses, r restarts with a fresh model, tab selects a
// controller parameter, up/down adjust it (or push the rate when the
// controller is manual), q quits.
package viz
