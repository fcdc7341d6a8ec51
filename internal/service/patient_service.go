package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/patient"
)

// PatientService owns the identity records that case writes maintain. Reads
// dominate; the only direct writes are demographic corrections.
type PatientService struct {
	repo patient.Repository
	log  *zap.Logger
}

func NewPatientService(repo patient.Repository, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, log: log}
}

// IdentityView is an identity plus its case count.
type IdentityView struct {
	*patient.Identity
	CaseCount int64 `json:"case_count"`
}

func (s *PatientService) GetIdentity(ctx context.Context, nationalID string) (*IdentityView, error) {
	i, err := s.repo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CaseCount(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	return &IdentityView{Identity: i, CaseCount: count}, nil
}

// UpdateIdentity corrects an identity's demographics in place. Snapshots on
// existing cases stay as written; the next case write refreshes them.
func (s *PatientService) UpdateIdentity(ctx context.Context, nationalID string, cmd *patient.UpdateIdentityCommand) (*patient.Identity, error) {
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		return nil, &ValidationError{Fields: []string{patient.ErrInvalidGender.Error()}}
	}
	if cmd.Name != nil && *cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"name cannot be empty"}}
	}
	if cmd.BirthDate != nil {
		derived, err := patient.BirthDateFromNationalID(nationalID)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		if !cmd.BirthDate.Equal(derived) {
			return nil, &ValidationError{Fields: []string{patient.ErrBirthDateMismatch.Error()}}
		}
	}

	i, err := s.repo.Update(ctx, nationalID, cmd)
	if err != nil {
		return nil, err
	}
	s.log.Info("identity updated", zap.String("identity", nationalID))
	return i, nil
}

// DeleteIdentity removes an identity that no case references anymore.
// Identities with live cases are deleted through their last case instead.
func (s *PatientService) DeleteIdentity(ctx context.Context, nationalID string) error {
	count, err := s.repo.CaseCount(ctx, nationalID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{
			Fields: []string{"identity still has cases; delete the cases first"},
		}
	}
	return s.repo.Delete(ctx, nationalID)
}

func (s *PatientService) ListIdentities(ctx context.Context, q *patient.ListIdentitiesQuery) (*patient.PagedIdentities, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}
