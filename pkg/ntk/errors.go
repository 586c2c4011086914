package ntk

import (
	"fmt"
	"math/big"
)

// InverseError reports an element that has no inverse modulo Modulus.
// It unwraps to ErrNoInverse.
type InverseError struct {
	Value   *big.Int
	Modulus *big.Int
	GCD     *big.Int
}

func (e *InverseError) Error() string {
	return fmt.Sprintf("%v: gcd(%s, %s) = %s", ErrNoInverse, e.Value, e.Modulus, e.GCD)
}

func (e *InverseError) Unwrap() error {
	return ErrNoInverse
}

// NewInverseError creates a new InverseError.
func NewInverseError(value, modulus, gcd *big.Int) *InverseError {
	return &InverseError{
		Value:   new(big.Int).Set(value),
		Modulus: new(big.Int).Set(modulus),
		GCD:     new(big.Int).Set(gcd),
	}
}
