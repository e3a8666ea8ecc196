package control

import "github.com/san-kum/plague/internal/plague"

// PID tracks a target infected percentage. The effective rate is the
// derivative of the percentage, so it is used directly as the D term
// instead of differencing the error.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	integral float64
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
	}
}

func (p *PID) Compute(percentage, effectiveRate float64, step int) float64 {
	err := p.Target - percentage
	p.integral += err * plague.Dt

	return p.Kp*err + p.Ki*p.integral - p.Kd*effectiveRate
}

// Reset clears the integral state
func (p *PID) Reset() {
	p.integral = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
