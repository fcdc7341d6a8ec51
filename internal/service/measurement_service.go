package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/template"
	"github.com/medicore/medicore/pkg/metrics"
)

// MeasurementService owns the clinical fact table. The API addresses rows by
// business codes; this service resolves them to surrogate keys and enforces
// the one-value-per-(case, template, entry, timestamp) rule.
type MeasurementService struct {
	measurements measurement.Repository
	cases        casefile.Repository
	templates    template.Repository
	entries      dictionary.Repository
	log          *zap.Logger
	metrics      *metrics.Collector
}

func NewMeasurementService(
	measurements measurement.Repository,
	cases casefile.Repository,
	templates template.Repository,
	entries dictionary.Repository,
	log *zap.Logger,
	m *metrics.Collector,
) *MeasurementService {
	return &MeasurementService{
		measurements: measurements,
		cases:        cases,
		templates:    templates,
		entries:      entries,
		log:          log,
		metrics:      m,
	}
}

func (s *MeasurementService) Create(ctx context.Context, cmd *measurement.CreateCommand) (*measurement.Detail, error) {
	if len(cmd.Value) == 0 {
		return nil, &ValidationError{Fields: []string{"value is required"}}
	}
	c, err := s.cases.GetByCode(ctx, cmd.CaseCode)
	if err != nil {
		return nil, err
	}
	t, err := s.templates.GetByCode(ctx, cmd.TemplateCode)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.GetByCode(ctx, cmd.WordCode)
	if err != nil {
		return nil, err
	}

	m := &measurement.Measurement{
		CaseID:         c.ID,
		DataTemplateID: t.ID,
		DictionaryID:   e.ID,
		Value:          cmd.Value,
		CheckTime:      cmd.CheckTime,
	}
	if err := s.measurements.Create(ctx, m); err != nil {
		return nil, err
	}

	s.metrics.MeasurementsWrittenTotal.WithLabelValues("single").Inc()
	return s.measurements.GetDetailByID(ctx, m.ID)
}

// BatchCreate writes every item of a bulk submission under one case and
// template. Without the upsert flag any duplicate fails the whole batch;
// with it, duplicates are overwritten.
func (s *MeasurementService) BatchCreate(ctx context.Context, cmd *measurement.BatchCreateCommand) (int, error) {
	if len(cmd.Items) == 0 {
		return 0, &ValidationError{Fields: []string{"data_list cannot be empty"}}
	}
	c, err := s.cases.GetByCode(ctx, cmd.CaseCode)
	if err != nil {
		return 0, err
	}
	t, err := s.templates.GetByCode(ctx, cmd.TemplateCode)
	if err != nil {
		return 0, err
	}

	wordCodes := make([]string, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		wordCodes = append(wordCodes, item.WordCode)
	}
	resolved, err := s.entries.GetByCodes(ctx, wordCodes)
	if err != nil {
		return 0, err
	}

	var missing []string
	rows := make([]*measurement.Measurement, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		e, ok := resolved[item.WordCode]
		if !ok {
			missing = append(missing, item.WordCode)
			continue
		}
		if len(item.Value) == 0 {
			missing = append(missing, item.WordCode+" (empty value)")
			continue
		}
		rows = append(rows, &measurement.Measurement{
			CaseID:         c.ID,
			DataTemplateID: t.ID,
			DictionaryID:   e.ID,
			Value:          item.Value,
			CheckTime:      item.CheckTime,
		})
	}
	if len(missing) > 0 {
		return 0, &ValidationError{
			Fields: []string{fmt.Sprintf("unknown or invalid entries: %v", missing)},
		}
	}

	if err := s.measurements.BatchCreate(ctx, rows, cmd.Upsert); err != nil {
		return 0, err
	}

	path := "batch"
	if cmd.Upsert {
		path = "upsert"
	}
	s.metrics.MeasurementsWrittenTotal.WithLabelValues(path).Add(float64(len(rows)))
	s.log.Info("measurement batch written",
		zap.String("case_code", cmd.CaseCode),
		zap.String("template_code", cmd.TemplateCode),
		zap.Int("rows", len(rows)),
		zap.Bool("upsert", cmd.Upsert),
	)
	return len(rows), nil
}

func (s *MeasurementService) GetByID(ctx context.Context, id uint) (*measurement.Detail, error) {
	return s.measurements.GetDetailByID(ctx, id)
}

// FindByKey locates measurements by natural key. An empty template code
// matches rows under any template.
func (s *MeasurementService) FindByKey(ctx context.Context, key *measurement.Key) ([]*measurement.Measurement, error) {
	caseID, templateID, dictionaryID, err := s.resolveKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.measurements.FindByKey(ctx, caseID, templateID, dictionaryID, key.CheckTime)
}

func (s *MeasurementService) UpdateValue(ctx context.Context, id uint, value datatypes.JSON) (*measurement.Detail, error) {
	if len(value) == 0 {
		return nil, &ValidationError{Fields: []string{"value is required"}}
	}
	m, err := s.measurements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Value = value
	if err := s.measurements.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.measurements.GetDetailByID(ctx, id)
}

// UpdateValueByKey rewrites the value of the row addressed by natural key.
func (s *MeasurementService) UpdateValueByKey(ctx context.Context, key *measurement.Key, value datatypes.JSON) (*measurement.Detail, error) {
	rows, err := s.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, measurement.ErrNotFound
	}
	return s.UpdateValue(ctx, rows[0].ID, value)
}

func (s *MeasurementService) Delete(ctx context.Context, id uint) error {
	return s.measurements.Delete(ctx, id)
}

// DeleteByKey removes every row matching the natural key in one statement,
// so a match set never shrinks partially. With an empty template code that is
// the entry's full record at that timestamp.
func (s *MeasurementService) DeleteByKey(ctx context.Context, key *measurement.Key) (int, error) {
	caseID, templateID, dictionaryID, err := s.resolveKey(ctx, key)
	if err != nil {
		return 0, err
	}
	deleted, err := s.measurements.DeleteByKey(ctx, caseID, templateID, dictionaryID, key.CheckTime)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, measurement.ErrNotFound
	}
	return int(deleted), nil
}

func (s *MeasurementService) List(ctx context.Context, q *measurement.ListQuery) (*measurement.PagedDetails, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.measurements.List(ctx, q)
}

func (s *MeasurementService) resolveKey(ctx context.Context, key *measurement.Key) (caseID, templateID, dictionaryID uint, err error) {
	c, err := s.cases.GetByCode(ctx, key.CaseCode)
	if err != nil {
		return 0, 0, 0, err
	}
	if key.TemplateCode != "" {
		t, err := s.templates.GetByCode(ctx, key.TemplateCode)
		if err != nil {
			return 0, 0, 0, err
		}
		templateID = t.ID
	}
	e, err := s.entries.GetByCode(ctx, key.WordCode)
	if err != nil {
		return 0, 0, 0, err
	}
	return c.ID, templateID, e.ID, nil
}
