package qfund

import (
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// ErrAlgorithm is returned when the configured matching algorithm is not one
// this extension implements. No computation is attempted in that case.
var ErrAlgorithm = errors.Register(1100, "unsupported algorithm")
