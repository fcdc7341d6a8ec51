package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/domain"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog

	// gate, when non-nil, blocks every Create until it is closed.
	gate  chan struct{}
	saved chan struct{}
}

func (f *fakeAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.entries = append(f.entries, e)
	f.mu.Unlock()
	if f.saved != nil {
		select {
		case f.saved <- struct{}{}:
		default:
		}
	}
	return nil
}

func TestAuditService_PersistsEntries(t *testing.T) {
	repo := &fakeAuditRepo{saved: make(chan struct{}, 1)}
	before := testutil.ToFloat64(testMetrics.AuditEntriesTotal)
	svc := NewAuditService(repo, testLogger, testMetrics)

	svc.LogAsync(context.Background(), AuditEntry{
		Username:     "dr.zhang",
		Action:       "create",
		ResourceType: "case",
		ResourceID:   "C000001",
	})

	select {
	case <-repo.saved:
	case <-time.After(5 * time.Second):
		t.Fatal("audit entry was not persisted")
	}
	svc.Shutdown()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "dr.zhang", repo.entries[0].Username)
	assert.Equal(t, "C000001", repo.entries[0].ResourceID)
	assert.Equal(t, before+1, testutil.ToFloat64(testMetrics.AuditEntriesTotal))
}

func TestAuditService_CountsDropsWhenBufferFull(t *testing.T) {
	repo := &fakeAuditRepo{gate: make(chan struct{})}
	before := testutil.ToFloat64(testMetrics.AuditBufferDropped)
	svc := NewAuditService(repo, testLogger, testMetrics)

	// The worker is stuck on the gate, so everything past the buffer
	// capacity is dropped and counted.
	for i := 0; i < auditBufferSize+2; i++ {
		svc.LogAsync(context.Background(), AuditEntry{Action: "create", ResourceType: "case"})
	}
	assert.GreaterOrEqual(t, testutil.ToFloat64(testMetrics.AuditBufferDropped)-before, 1.0)

	close(repo.gate)
	svc.Shutdown()
}
