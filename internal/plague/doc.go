// Package plague models the spread of an infection under a control signal.
//
// The model keeps one state variable, the infected percentage, and a rate
// built up from the control increments applied so far:
//
//	rate'  = clamp(rate + u, 0, 0.6)
//	p'     = min(p + (rate' - 0.5*p*p)*0.1, 1)
//
// Each call to [Model.Spread] advances the simulation by [Dt] days and
// appends one [Step]. History is append-only; start a new [Model] to run a
// fresh simulation.
//
// # Example
//
//	m := plague.New()
//	for i := 0; i < 100; i++ {
//	    p, r := m.Status()
//	    m.Spread(ctrl.Compute(p, r, i))
//	}
//	h := m.History()
package plague
