package control

// Controller computes the next control increment from the current status.
type Controller interface {
	Compute(percentage, effectiveRate float64, step int) float64
}

// Configurable controllers expose their parameters for live adjustment.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// Resetter controllers carry state between steps and can start over.
type Resetter interface {
	Reset()
}
