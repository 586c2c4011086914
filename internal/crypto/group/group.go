package group

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// Element is a member of a Group.
type Element = ntk.Element

// Group is a finite cyclic group written multiplicatively. Solvers are
// written once against it and run over (Z/pZ)* or E(F_p).
type Group interface {
	// Identity returns the neutral element.
	Identity() Element

	// Combine applies the group operation.
	Combine(a, b Element) (Element, error)

	// Invert returns the inverse of a.
	Invert(a Element) (Element, error)

	// Power returns a^k; negative k inverts.
	Power(a Element, k *big.Int) (Element, error)

	// Equal compares two elements.
	Equal(a, b Element) bool

	// Partition splits the group into three classes for random walks.
	Partition(a Element) int
}

func wrongElement(g Group, e Element) error {
	return fmt.Errorf("group: element %v of type %T does not belong to %T: %w", e, e, g, ntk.ErrInvalidParameters)
}
