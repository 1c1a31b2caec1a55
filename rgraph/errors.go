package rgraph

import (
	"errors"
	"fmt"
)

// ErrStructural is the parent of every assembly-time error. Structural errors
// are static: retrying the same assembly fails the same way.
var ErrStructural = errors.New("rgraph: structural error")

// Sentinel errors for common assembly failures.
var (
	ErrNoOutlet             = fmt.Errorf("%w: graph has no outlet", ErrStructural)
	ErrNoInlet              = fmt.Errorf("%w: stage has no inlet", ErrStructural)
	ErrInvalidConcatOperand = fmt.Errorf("%w: concat operand must have an outlet and no inlet", ErrStructural)
	ErrInvalidSubGraph      = fmt.Errorf("%w: sub-graph must have an outlet and no inlet", ErrStructural)
	ErrNilParameter         = fmt.Errorf("%w: missing stage parameter", ErrStructural)
)
