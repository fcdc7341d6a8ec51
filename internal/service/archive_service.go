package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/pkg/metrics"
)

// ArchiveService owns archive CRUD and A-code allocation.
type ArchiveService struct {
	repo      archive.Repository
	log       *zap.Logger
	allocator codeAllocator
}

func NewArchiveService(repo archive.Repository, log *zap.Logger, m *metrics.Collector) *ArchiveService {
	return &ArchiveService{
		repo:      repo,
		log:       log,
		allocator: codeAllocator{metrics: m},
	}
}

func (s *ArchiveService) CreateArchive(ctx context.Context, cmd *archive.CreateArchiveCommand) (*archive.Archive, error) {
	if cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"archive_name is required"}}
	}

	a := &archive.Archive{
		Name:        cmd.Name,
		Description: cmd.Description,
	}
	_, err := s.allocator.allocate(ctx, codes.ArchivePrefix,
		s.repo.CodesWithPrefix,
		func(ctx context.Context, code string) error {
			a.ArchiveCode = code
			return s.repo.Create(ctx, a)
		},
		archive.ErrCodeConflict,
	)
	if err != nil {
		return nil, err
	}

	s.log.Info("archive created", zap.String("archive_code", a.ArchiveCode))
	return a, nil
}

// ArchiveDetail is the retrieve shape: the archive plus its member cases.
type ArchiveDetail struct {
	archive.Archive
	CaseCount int64    `json:"case_count"`
	CaseCodes []string `json:"case_codes"`
}

func (s *ArchiveService) GetArchive(ctx context.Context, archiveCode string) (*ArchiveDetail, error) {
	a, err := s.repo.GetByCode(ctx, archiveCode)
	if err != nil {
		return nil, err
	}
	caseCodes, err := s.repo.CaseCodesFor(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &ArchiveDetail{
		Archive:   *a,
		CaseCount: int64(len(caseCodes)),
		CaseCodes: caseCodes,
	}, nil
}

func (s *ArchiveService) UpdateArchive(ctx context.Context, archiveCode string, cmd *archive.UpdateArchiveCommand) (*archive.Archive, error) {
	a, err := s.repo.GetByCode(ctx, archiveCode)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, &ValidationError{Fields: []string{"archive_name cannot be empty"}}
		}
		a.Name = *cmd.Name
	}
	if cmd.Description != nil {
		a.Description = *cmd.Description
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArchive removes the archive and its membership links; member cases
// are untouched.
func (s *ArchiveService) DeleteArchive(ctx context.Context, archiveCode string) error {
	if err := s.repo.DeleteByCode(ctx, archiveCode); err != nil {
		return err
	}
	s.log.Info("archive deleted", zap.String("archive_code", archiveCode))
	return nil
}

func (s *ArchiveService) ListArchives(ctx context.Context, page, pageSize int) (*archive.PagedArchives, error) {
	normalizePage(&page, &pageSize)
	return s.repo.List(ctx, page, pageSize)
}
