package congruence

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ntkit/internal/crypto/factor"
	"github.com/smallyu/go-ntkit/internal/crypto/modular"
	"github.com/smallyu/go-ntkit/pkg/ntk"
)

// SolveSystem solves rows·x ≡ rhs (mod n) for a system with at least as
// many rows as unknowns whose solution is unique mod n. n is split into
// prime powers q^e; each is solved by Gauss-Jordan elimination with pivots
// not divisible by q, and the columns are recombined with Combine.
// An underdetermined system fails with ErrSingularSystem.
func SolveSystem(rows [][]*big.Int, rhs []*big.Int, n *big.Int) ([]*big.Int, error) {
	if err := modular.CheckModulus(n); err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows) != len(rhs) {
		return nil, fmt.Errorf("congruence: need matching non-empty rows and right-hand sides: %w", ntk.ErrInvalidParameters)
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("congruence: row %d has %d columns, want %d: %w", i, len(row), cols, ntk.ErrInvalidParameters)
		}
	}
	if len(rows) < cols {
		return nil, fmt.Errorf("congruence: %d equations for %d unknowns: %w", len(rows), cols, ntk.ErrSingularSystem)
	}

	factors, err := factor.TrialDivision(n)
	if err != nil {
		return nil, err
	}

	var solution []*big.Int
	mod := big.NewInt(1)
	for _, f := range factors {
		qe := f.Value()
		local, err := solveLocal(rows, rhs, f.Prime, qe)
		if err != nil {
			return nil, err
		}
		if solution == nil {
			solution, mod = local, qe
			continue
		}
		for c := range solution {
			solution[c], _, err = Combine(solution[c], mod, local[c], qe)
			if err != nil {
				return nil, err
			}
		}
		mod = new(big.Int).Mul(mod, qe)
	}
	if solution == nil {
		// n = 1: every value is a solution.
		solution = make([]*big.Int, cols)
		for c := range solution {
			solution[c] = new(big.Int)
		}
	}
	return solution, nil
}

// solveLocal solves the system modulo qe = q^e.
func solveLocal(rows [][]*big.Int, rhs []*big.Int, q, qe *big.Int) ([]*big.Int, error) {
	cols := len(rows[0])
	m := make([][]*big.Int, len(rows))
	for r, row := range rows {
		m[r] = make([]*big.Int, cols+1)
		for c, v := range row {
			m[r][c] = modular.Reduce(v, qe)
		}
		m[r][cols] = modular.Reduce(rhs[r], qe)
	}

	used := make([]bool, len(m))
	pivots := make([]int, cols)
	for c := 0; c < cols; c++ {
		pivot := -1
		for r := range m {
			if !used[r] && !modular.IsZero(m[r][c], q) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, fmt.Errorf("congruence: no unit pivot for column %d mod %s: %w", c, qe, ntk.ErrSingularSystem)
		}
		used[pivot] = true
		pivots[c] = pivot

		inv, err := modular.Inverse(m[pivot][c], qe)
		if err != nil {
			return nil, err
		}
		for k := range m[pivot] {
			m[pivot][k] = modular.Mul(m[pivot][k], inv, qe)
		}

		for r := range m {
			if r == pivot || m[r][c].Sign() == 0 {
				continue
			}
			f := new(big.Int).Set(m[r][c])
			for k := range m[r] {
				m[r][k] = modular.Sub(m[r][k], new(big.Int).Mul(f, m[pivot][k]), qe)
			}
		}
	}

	solution := make([]*big.Int, cols)
	for c, r := range pivots {
		solution[c] = m[r][cols]
	}
	return solution, nil
}
