package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/domain/codes"
)

var errTestConflict = errors.New("code taken")

func TestAllocate_FirstCodeAccepted(t *testing.T) {
	a := codeAllocator{metrics: testMetrics}

	existing := func(_ context.Context, _ string) ([]string, error) {
		return []string{"C000004", "C000011"}, nil
	}
	var got string
	create := func(_ context.Context, code string) error {
		got = code
		return nil
	}

	code, err := a.allocate(context.Background(), "C", existing, create, errTestConflict)
	require.NoError(t, err)
	assert.Equal(t, "C000012", code)
	assert.Equal(t, "C000012", got)
}

func TestAllocate_RetriesAfterConflict(t *testing.T) {
	a := codeAllocator{metrics: testMetrics}

	// The scan lags one code behind a concurrent writer for two rounds.
	stored := []string{"C000001"}
	scans := 0
	existing := func(_ context.Context, _ string) ([]string, error) {
		scans++
		return append([]string(nil), stored...), nil
	}
	conflicts := 2
	create := func(_ context.Context, code string) error {
		if conflicts > 0 {
			conflicts--
			stored = append(stored, code)
			return fmt.Errorf("insert: %w", errTestConflict)
		}
		return nil
	}

	code, err := a.allocate(context.Background(), "C", existing, create, errTestConflict)
	require.NoError(t, err)
	assert.Equal(t, "C000004", code)
	assert.Equal(t, 3, scans)
}

func TestAllocate_GivesUpAfterMaxAttempts(t *testing.T) {
	a := codeAllocator{metrics: testMetrics}

	existing := func(_ context.Context, _ string) ([]string, error) {
		return nil, nil
	}
	attempts := 0
	create := func(_ context.Context, _ string) error {
		attempts++
		return errTestConflict
	}

	_, err := a.allocate(context.Background(), "C", existing, create, errTestConflict)
	require.ErrorIs(t, err, codes.ErrExhausted)
	assert.Equal(t, codes.MaxAttempts, attempts)
}

func TestAllocate_PropagatesOtherErrors(t *testing.T) {
	a := codeAllocator{metrics: testMetrics}

	errBoom := errors.New("connection reset")
	existing := func(_ context.Context, _ string) ([]string, error) {
		return nil, nil
	}
	create := func(_ context.Context, _ string) error {
		return errBoom
	}

	_, err := a.allocate(context.Background(), "C", existing, create, errTestConflict)
	require.ErrorIs(t, err, errBoom)
}
