package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

type outcome struct {
	report *domain.CompensationReport
	err    error
}

func next(t *testing.T, ch <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a report")
		return outcome{}
	}
}

func TestWatcherRecomputesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages:\n  - name: Engineer\n    basic_salary: 1575000\n"), 0o644))

	w := New(path, calculation.NewCompensationEngine(), nil, 50*time.Millisecond)
	results := make(chan outcome, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(r *domain.CompensationReport, err error) { results <- outcome{r, err} })
	}()

	first := next(t, results)
	require.NoError(t, first.err)
	require.Len(t, first.report.Packages, 1)
	assert.True(t, first.report.Packages[0].Result.TotalTaxLiability.Equal(decimal.NewFromInt(109200)))

	require.NoError(t, os.WriteFile(path, []byte("packages:\n  - name: Engineer\n    basic_salary: 1000000\n"), 0o644))
	second := next(t, results)
	require.NoError(t, second.err)
	assert.True(t, second.report.Packages[0].Result.TotalTaxLiability.IsZero())

	require.NoError(t, os.WriteFile(path, []byte("packages:\n  - name: Engineer\n    basic_salary: -5\n"), 0o644))
	third := next(t, results)
	assert.Nil(t, third.report)
	assert.True(t, errors.Is(third.err, calculation.ErrInvalidInput))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "packages.yaml"), calculation.NewCompensationEngine(), nil, 0)
	err := w.Run(context.Background(), func(*domain.CompensationReport, error) {})
	assert.Error(t, err)
}
