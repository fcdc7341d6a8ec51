package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/domain/archive"
)

func newArchiveFixture() (*ArchiveService, *fakeArchiveRepo) {
	repo := newFakeArchiveRepo()
	return NewArchiveService(repo, testLogger, testMetrics), repo
}

func TestCreateArchive_AllocatesCodes(t *testing.T) {
	svc, _ := newArchiveFixture()
	ctx := context.Background()

	first, err := svc.CreateArchive(ctx, &archive.CreateArchiveCommand{Name: "肾移植队列"})
	require.NoError(t, err)
	assert.Equal(t, "A000001", first.ArchiveCode)

	second, err := svc.CreateArchive(ctx, &archive.CreateArchiveCommand{Name: "透析随访"})
	require.NoError(t, err)
	assert.Equal(t, "A000002", second.ArchiveCode)
}

func TestCreateArchive_RequiresName(t *testing.T) {
	svc, _ := newArchiveFixture()

	_, err := svc.CreateArchive(context.Background(), &archive.CreateArchiveCommand{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateArchive_MergesFields(t *testing.T) {
	svc, _ := newArchiveFixture()
	ctx := context.Background()

	a, err := svc.CreateArchive(ctx, &archive.CreateArchiveCommand{
		Name:        "肾移植队列",
		Description: "等待名单",
	})
	require.NoError(t, err)

	desc := "2024年等待名单"
	updated, err := svc.UpdateArchive(ctx, a.ArchiveCode, &archive.UpdateArchiveCommand{
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, "肾移植队列", updated.Name)
	assert.Equal(t, "2024年等待名单", updated.Description)
}

func TestUpdateArchive_RejectsEmptyName(t *testing.T) {
	svc, _ := newArchiveFixture()
	ctx := context.Background()

	a, err := svc.CreateArchive(ctx, &archive.CreateArchiveCommand{Name: "肾移植队列"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateArchive(ctx, a.ArchiveCode, &archive.UpdateArchiveCommand{Name: &empty})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestGetArchive_IncludesCaseList(t *testing.T) {
	svc, repo := newArchiveFixture()
	ctx := context.Background()

	a, err := svc.CreateArchive(ctx, &archive.CreateArchiveCommand{Name: "肾移植队列"})
	require.NoError(t, err)
	repo.caseCodes[a.ID] = []string{"C000001", "C000003"}

	detail, err := svc.GetArchive(ctx, a.ArchiveCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"C000001", "C000003"}, detail.CaseCodes)
	assert.EqualValues(t, 2, detail.CaseCount)
}

func TestDeleteArchive_NotFound(t *testing.T) {
	svc, _ := newArchiveFixture()
	err := svc.DeleteArchive(context.Background(), "A999999")
	require.ErrorIs(t, err, archive.ErrArchiveNotFound)
}
