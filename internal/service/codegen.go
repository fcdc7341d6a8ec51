package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/pkg/metrics"
)

// codeAllocator wires the shared numbering scheme to a concrete store: scan
// existing codes for a prefix, take max+1, and call create. When create
// reports a uniqueness conflict (a concurrent writer won the code), the
// allocator rescans and retries up to codes.MaxAttempts times.
type codeAllocator struct {
	metrics *metrics.Collector
}

// allocate returns the code that create accepted. existing enumerates the
// codes currently stored under prefix; create must return conflictErr (or an
// error wrapping it) only for a code-uniqueness violation.
func (a *codeAllocator) allocate(
	ctx context.Context,
	prefix string,
	existing func(ctx context.Context, prefix string) ([]string, error),
	create func(ctx context.Context, code string) error,
	conflictErr error,
) (string, error) {
	for attempt := 0; attempt < codes.MaxAttempts; attempt++ {
		current, err := existing(ctx, prefix)
		if err != nil {
			return "", fmt.Errorf("scanning codes for prefix %s: %w", prefix, err)
		}
		code := codes.Format(prefix, codes.MaxSequence(prefix, current)+1)

		err = create(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, conflictErr) {
			return "", err
		}
		if a.metrics != nil {
			a.metrics.CodeGenRetriesTotal.WithLabelValues(prefix).Inc()
		}
	}
	if a.metrics != nil {
		a.metrics.CodeGenFailuresTotal.WithLabelValues(prefix).Inc()
	}
	return "", fmt.Errorf("%w: prefix %s", codes.ErrExhausted, prefix)
}
