package control

// LQR is a static state-feedback law on the error vector
// (percentage - target, effective rate).
type LQR struct {
	K      [2]float64
	Target float64
}

func NewLQR(k [2]float64, target float64) *LQR {
	return &LQR{K: k, Target: target}
}

var defaultGains = [2]float64{1.0, 1.0}

// NewDefaultLQR uses gains that settle on the target within a few days
// from an uninfected start.
func NewDefaultLQR(target float64) *LQR {
	return NewLQR(defaultGains, target)
}

func (l *LQR) Compute(percentage, effectiveRate float64, step int) float64 {
	return -(l.K[0]*(percentage-l.Target) + l.K[1]*effectiveRate)
}

func (l *LQR) GetParams() map[string]float64 {
	return map[string]float64{
		"K0":     l.K[0],
		"K1":     l.K[1],
		"Target": l.Target,
	}
}

func (l *LQR) SetParam(name string, value float64) {
	switch name {
	case "K0":
		l.K[0] = value
	case "K1":
		l.K[1] = value
	case "Target":
		l.Target = value
	}
}
