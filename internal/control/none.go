package control

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(percentage, effectiveRate float64, step int) float64 {
	return 0
}
