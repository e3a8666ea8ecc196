// Package control provides the feedback loop that drives an infection model.
//
// A [Controller] reads the model status (infected percentage and effective
// rate) and returns the next control increment to apply to the rate:
//
//   - [PID]: tracks a target percentage
//   - [LQR]: static state feedback on (percentage error, effective rate)
//   - [BangBang]: fixed-size pushes toward the target
//   - [Schedule]: replays a fixed list of increments
//   - [Manual]: increment set from outside, e.g. the live view
//   - [None]: zero control
//
// # Usage
//
//	pid := control.NewPID(1.0, 0.0, 1.0, 0.3) // Kp, Ki, Kd, target
//	for i := 0; i < steps; i++ {
//	    p, r := m.Status()
//	    m.Spread(pid.Compute(p, r, i))
//	}
//
// Controllers implementing [Configurable] support live tuning.
package control
