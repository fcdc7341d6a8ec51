package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/pkg/metrics"
)

// CaseService owns case CRUD and the two behaviors that hang off every case
// write: identity merge-on-write (the national ID is the patient key; each
// write creates or overwrites the shared identity row) and archive-set
// replacement from the union of submitted codes and IDs.
type CaseService struct {
	cases     casefile.Repository
	archives  archive.Repository
	log       *zap.Logger
	metrics   *metrics.Collector
	allocator codeAllocator
}

func NewCaseService(
	cases casefile.Repository,
	archives archive.Repository,
	log *zap.Logger,
	m *metrics.Collector,
) *CaseService {
	return &CaseService{
		cases:     cases,
		archives:  archives,
		log:       log,
		metrics:   m,
		allocator: codeAllocator{metrics: m},
	}
}

// CaseView is a case plus the archive codes it belongs to.
type CaseView struct {
	*casefile.Case
	ArchiveCodes []string `json:"archive_codes"`
}

func (s *CaseService) CreateCase(ctx context.Context, cmd *casefile.CreateCaseCommand) (*CaseView, error) {
	identity, err := buildIdentity(cmd.NationalID, cmd.Name, cmd.Gender, cmd.BirthDate)
	if err != nil {
		return nil, err
	}

	archiveIDs, err := s.resolveArchives(ctx, cmd.ArchiveCodes, cmd.ArchiveIDs)
	if err != nil {
		return nil, err
	}

	c := &casefile.Case{
		IdentityID:           identity.IdentityID,
		OPDID:                cmd.OPDID,
		InhospitalID:         cmd.InhospitalID,
		Name:                 identity.Name,
		Gender:               identity.Gender,
		BirthDate:            identity.BirthDate,
		PhoneNumber:          cmd.PhoneNumber,
		HomeAddress:          cmd.HomeAddress,
		BloodType:            cmd.BloodType,
		MainDiagnosis:        cmd.MainDiagnosis,
		HasTransplantSurgery: orUnfilled(cmd.HasTransplantSurgery),
		IsInTransplantQueue:  orUnfilled(cmd.IsInTransplantQueue),
	}

	// Merge-on-write: the identity row is created on first reference and its
	// demographics overwritten on every later one. Each attempt runs identity,
	// case and archive writes in one transaction, so a failed attempt leaves
	// nothing behind.
	_, err = s.allocator.allocate(ctx, codes.CasePrefix,
		s.cases.CodesWithPrefix,
		func(ctx context.Context, code string) error {
			c.CaseCode = code
			return s.cases.CreateWithIdentity(ctx, identity, c, archiveIDs)
		},
		casefile.ErrCodeConflict,
	)
	if err != nil {
		return nil, err
	}

	s.metrics.CasesCreatedTotal.Inc()
	s.log.Info("case created",
		zap.String("case_code", c.CaseCode),
		zap.String("identity", c.IdentityID),
		zap.Int("archives", len(archiveIDs)),
	)
	return s.GetCase(ctx, c.CaseCode)
}

func (s *CaseService) GetCase(ctx context.Context, caseCode string) (*CaseView, error) {
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	archiveCodes, err := s.cases.ArchiveCodesFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &CaseView{Case: c, ArchiveCodes: archiveCodes}, nil
}

func (s *CaseService) UpdateCase(ctx context.Context, caseCode string, cmd *casefile.UpdateCaseCommand) (*CaseView, error) {
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}

	nationalID := c.IdentityID
	if cmd.NationalID != nil {
		nationalID = *cmd.NationalID
	}
	name := c.Name
	if cmd.Name != nil {
		name = *cmd.Name
	}
	gender := c.Gender
	if cmd.Gender != nil {
		gender = *cmd.Gender
	}

	identity, err := buildIdentity(nationalID, name, gender, cmd.BirthDate)
	if err != nil {
		return nil, err
	}

	var archiveIDs []uint
	replaceArchives := cmd.ArchiveCodes != nil || cmd.ArchiveIDs != nil
	if replaceArchives {
		var byCode []string
		var byID []uint
		if cmd.ArchiveCodes != nil {
			byCode = *cmd.ArchiveCodes
		}
		if cmd.ArchiveIDs != nil {
			byID = *cmd.ArchiveIDs
		}
		archiveIDs, err = s.resolveArchives(ctx, byCode, byID)
		if err != nil {
			return nil, err
		}
	}

	c.IdentityID = identity.IdentityID
	c.Name = identity.Name
	c.Gender = identity.Gender
	c.BirthDate = identity.BirthDate
	if cmd.OPDID != nil {
		c.OPDID = *cmd.OPDID
	}
	if cmd.InhospitalID != nil {
		c.InhospitalID = *cmd.InhospitalID
	}
	if cmd.PhoneNumber != nil {
		c.PhoneNumber = *cmd.PhoneNumber
	}
	if cmd.HomeAddress != nil {
		c.HomeAddress = *cmd.HomeAddress
	}
	if cmd.BloodType != nil {
		c.BloodType = *cmd.BloodType
	}
	if cmd.MainDiagnosis != nil {
		c.MainDiagnosis = *cmd.MainDiagnosis
	}
	if cmd.HasTransplantSurgery != nil {
		c.HasTransplantSurgery = orUnfilled(*cmd.HasTransplantSurgery)
	}
	if cmd.IsInTransplantQueue != nil {
		c.IsInTransplantQueue = orUnfilled(*cmd.IsInTransplantQueue)
	}

	var archiveSet *[]uint
	if replaceArchives {
		archiveSet = &archiveIDs
	}
	if err := s.cases.UpdateWithIdentity(ctx, identity, c, archiveSet); err != nil {
		return nil, err
	}

	return s.GetCase(ctx, caseCode)
}

// DeleteCase removes a case; deleting the identity's last case removes the
// identity too.
func (s *CaseService) DeleteCase(ctx context.Context, caseCode string) error {
	if err := s.cases.DeleteByCode(ctx, caseCode); err != nil {
		return err
	}
	s.log.Info("case deleted", zap.String("case_code", caseCode))
	return nil
}

func (s *CaseService) ListCases(ctx context.Context, q *casefile.ListCasesQuery) (*casefile.PagedCases, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.cases.List(ctx, q)
}

func (s *CaseService) AddImage(ctx context.Context, caseCode string, templateID uint, url, remark string) (*casefile.Image, error) {
	if url == "" {
		return nil, &ValidationError{Fields: []string{"url is required"}}
	}
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	img := &casefile.Image{
		CaseID:         c.ID,
		DataTemplateID: templateID,
		URL:            url,
		Remark:         remark,
	}
	if err := s.cases.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *CaseService) ListImages(ctx context.Context, caseCode string) ([]*casefile.Image, error) {
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	return s.cases.ListImages(ctx, c.ID)
}

func (s *CaseService) DeleteImage(ctx context.Context, id uint) error {
	return s.cases.DeleteImage(ctx, id)
}

// resolveArchives maps the union of archive codes and surrogate IDs to a
// deduplicated ID set. Any identifier that resolves to nothing fails the
// whole write, with the strays listed.
func (s *CaseService) resolveArchives(ctx context.Context, archiveCodes []string, archiveIDs []uint) ([]uint, error) {
	if len(archiveCodes) == 0 && len(archiveIDs) == 0 {
		return nil, nil
	}

	var unresolved []string

	byCode, err := s.archives.ResolveByCodes(ctx, archiveCodes)
	if err != nil {
		return nil, err
	}
	byID, err := s.archives.ResolveByIDs(ctx, archiveIDs)
	if err != nil {
		return nil, err
	}

	set := make(map[uint]struct{})
	for _, code := range archiveCodes {
		a, ok := byCode[code]
		if !ok {
			unresolved = append(unresolved, code)
			continue
		}
		set[a.ID] = struct{}{}
	}
	for _, id := range archiveIDs {
		a, ok := byID[id]
		if !ok {
			unresolved = append(unresolved, fmt.Sprintf("id=%d", id))
			continue
		}
		set[a.ID] = struct{}{}
	}

	if len(unresolved) > 0 {
		return nil, &ValidationError{
			Fields: []string{fmt.Sprintf("unknown archives: %v", unresolved)},
		}
	}

	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// buildIdentity validates the demographic inputs and derives the birth date
// from the national ID. An explicitly submitted birth date must agree with
// the derived one.
func buildIdentity(nationalID, name string, gender patient.Gender, explicitBirth *time.Time) (*patient.Identity, error) {
	var fields []string

	derived, err := patient.BirthDateFromNationalID(nationalID)
	if err != nil {
		fields = append(fields, err.Error())
	}
	if name == "" {
		fields = append(fields, "name is required")
	}
	if !gender.IsValid() {
		fields = append(fields, patient.ErrInvalidGender.Error())
	}
	if err == nil && explicitBirth != nil && !explicitBirth.Equal(derived) {
		fields = append(fields, patient.ErrBirthDateMismatch.Error())
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &patient.Identity{
		IdentityID: nationalID,
		Name:       name,
		Gender:     gender,
		BirthDate:  derived,
	}, nil
}

func orUnfilled(v string) string {
	if v == "" {
		return casefile.FieldUnfilled
	}
	return v
}
