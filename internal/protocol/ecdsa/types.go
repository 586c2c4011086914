package ecdsa

import (
	"fmt"
	"math/big"
)

// Signature is a textbook ECDSA signature (r, s).
type Signature struct {
	R *big.Int
	S *big.Int
}

func (s *Signature) String() string {
	return fmt.Sprintf("(r=%s, s=%s)", s.R, s.S)
}
