package control

// BangBang pushes the rate up by Step while below Target and down by Step
// while above. Inside the deadband it applies nothing.
type BangBang struct {
	Step     float64
	Target   float64
	Deadband float64
}

func NewBangBang(step, target, deadband float64) *BangBang {
	return &BangBang{Step: step, Target: target, Deadband: deadband}
}

func (b *BangBang) Compute(percentage, effectiveRate float64, step int) float64 {
	switch {
	case percentage < b.Target-b.Deadband:
		return b.Step
	case percentage > b.Target+b.Deadband:
		return -b.Step
	}
	return 0
}
