package ntk

import (
	"errors"
	"math/big"
	"testing"
)

func TestTraceRecord(t *testing.T) {
	t.Run("nil trace is a no-op", func(t *testing.T) {
		var tr *Trace
		tr.Record("x", 1)
		if tr.Len() != 0 {
			t.Errorf("Expected 0 steps, got %d", tr.Len())
		}
		if _, ok := tr.Last("x"); ok {
			t.Error("Expected no step on nil trace")
		}
	})

	t.Run("big.Int values are copied", func(t *testing.T) {
		tr := &Trace{}
		v := big.NewInt(5)
		tr.Record("v", v)
		v.SetInt64(6)

		step, ok := tr.Last("v")
		if !ok {
			t.Fatal("Expected step v")
		}
		if step.Value.(*big.Int).Int64() != 5 {
			t.Errorf("Expected recorded value 5, got %v", step.Value)
		}
	})

	t.Run("last returns the latest step", func(t *testing.T) {
		tr := &Trace{}
		tr.Record("i", 1)
		tr.Record("j", 2)
		tr.Record("i", 3)

		step, _ := tr.Last("i")
		if step.Value != 3 {
			t.Errorf("Expected 3, got %v", step.Value)
		}
		if tr.Len() != 3 {
			t.Errorf("Expected 3 steps, got %d", tr.Len())
		}
	})
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	if cfg.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", cfg.MaxIterations, DefaultMaxIterations)
	}
	if cfg.MaxRelations != DefaultMaxRelations {
		t.Errorf("MaxRelations = %d, want %d", cfg.MaxRelations, DefaultMaxRelations)
	}

	tr := &Trace{}
	cfg = NewConfig(WithTrace(tr), WithMaxIterations(10), WithMaxRelations(-1), nil)
	if cfg.Trace != tr {
		t.Error("Trace option not applied")
	}
	if cfg.MaxIterations != 10 {
		t.Errorf("MaxIterations = %d, want 10", cfg.MaxIterations)
	}
	if cfg.MaxRelations != DefaultMaxRelations {
		t.Errorf("Negative MaxRelations should be ignored, got %d", cfg.MaxRelations)
	}
}

func TestErrors(t *testing.T) {
	if !errors.Is(ErrSingularSystem, ErrNoSolution) {
		t.Error("ErrSingularSystem should wrap ErrNoSolution")
	}

	err := NewInverseError(big.NewInt(6), big.NewInt(9), big.NewInt(3))
	if !errors.Is(err, ErrNoInverse) {
		t.Error("InverseError should unwrap to ErrNoInverse")
	}

	var invErr *InverseError
	wrapped := error(err)
	if !errors.As(wrapped, &invErr) || invErr.GCD.Int64() != 3 {
		t.Errorf("errors.As failed or wrong gcd: %v", wrapped)
	}
	if err.Error() != "no modular inverse: gcd(6, 9) = 3" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}
