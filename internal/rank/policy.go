package rank

import (
	"fmt"
	"math"
)

// StoppingPolicy decides when the shared iteration loop ends. The two
// implementations are Convergence and FixedCount.
type StoppingPolicy interface {
	// limit returns the maximum number of steps to run.
	limit() int
	// converged reports whether a step with the given L2 distance ends the run.
	converged(distance float64) bool
	validate() error
	fmt.Stringer
}

// Convergence stops once the L2 distance between consecutive rank vectors
// drops below Tolerance. MaxIterations caps the run for graphs that never
// settle numerically.
type Convergence struct {
	Tolerance     float64
	MaxIterations int
}

func (c Convergence) limit() int { return c.MaxIterations }

func (c Convergence) converged(distance float64) bool { return distance < c.Tolerance }

func (c Convergence) validate() error {
	if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be > 0, got %v", ErrInvalidOptions, c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be > 0, got %d", ErrInvalidOptions, c.MaxIterations)
	}
	return nil
}

// String describes the policy for logs and manifests.
func (c Convergence) String() string {
	return fmt.Sprintf("convergence(tolerance=%g, max=%d)", c.Tolerance, c.MaxIterations)
}

// FixedCount runs exactly N steps with no convergence check. N may be zero,
// in which case the uniform initial vector is returned.
type FixedCount struct {
	N int
}

func (f FixedCount) limit() int { return f.N }

func (f FixedCount) converged(float64) bool { return false }

func (f FixedCount) validate() error {
	if f.N < 0 {
		return fmt.Errorf("%w: iteration count must be >= 0, got %d", ErrInvalidOptions, f.N)
	}
	return nil
}

// String describes the policy for logs and manifests.
func (f FixedCount) String() string {
	return fmt.Sprintf("fixed(n=%d)", f.N)
}
