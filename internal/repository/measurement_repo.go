package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
)

// detailSelect joins a measurement row with the business codes and names the
// API surfaces instead of surrogate IDs.
const detailSelect = `data_table.id, data_table.value, data_table.check_time,
"case".case_code AS case_code,
data_template.template_code AS template_code,
data_template.template_name AS template_name,
data_template_category.name AS template_category,
dictionary.word_code AS word_code,
dictionary.word_name AS word_name`

// MeasurementRepository is the gorm-backed implementation of
// measurement.Repository.
type MeasurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func (r *MeasurementRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&measurement.Measurement{}).
		Select(detailSelect).
		Joins(`JOIN "case" ON "case".id = data_table.case_id`).
		Joins("JOIN data_template ON data_template.id = data_table.data_template_id").
		Joins("JOIN data_template_category ON data_template_category.id = data_template.category_id").
		Joins("JOIN dictionary ON dictionary.id = data_table.dictionary_id")
}

func (r *MeasurementRepository) Create(ctx context.Context, m *measurement.Measurement) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return measurement.ErrDuplicate
		}
		return fmt.Errorf("creating measurement: %w", err)
	}
	return nil
}

func (r *MeasurementRepository) BatchCreate(ctx context.Context, rows []*measurement.Measurement, upsert bool) error {
	if len(rows) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx)
	if upsert {
		tx = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "case_id"},
				{Name: "data_template_id"},
				{Name: "dictionary_id"},
				{Name: "check_time"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		})
	}
	if err := tx.Create(rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return measurement.ErrDuplicate
		}
		return fmt.Errorf("batch creating measurements: %w", err)
	}
	return nil
}

func (r *MeasurementRepository) GetByID(ctx context.Context, id uint) (*measurement.Measurement, error) {
	var m measurement.Measurement
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, measurement.ErrNotFound
		}
		return nil, fmt.Errorf("fetching measurement %d: %w", id, err)
	}
	return &m, nil
}

func (r *MeasurementRepository) GetDetailByID(ctx context.Context, id uint) (*measurement.Detail, error) {
	var d measurement.Detail
	err := r.detailQuery(ctx).
		Where("data_table.id = ?", id).
		Take(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, measurement.ErrNotFound
		}
		return nil, fmt.Errorf("fetching measurement detail %d: %w", id, err)
	}
	return &d, nil
}

func (r *MeasurementRepository) FindByKey(ctx context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) ([]*measurement.Measurement, error) {
	q := r.db.WithContext(ctx).
		Where("case_id = ? AND dictionary_id = ? AND check_time = ?", caseID, dictionaryID, checkTime)
	if templateID != 0 {
		q = q.Where("data_template_id = ?", templateID)
	}
	var rows []*measurement.Measurement
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("finding measurement by key: %w", err)
	}
	return rows, nil
}

func (r *MeasurementRepository) Update(ctx context.Context, m *measurement.Measurement) error {
	err := r.db.WithContext(ctx).Save(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return measurement.ErrDuplicate
		}
		return fmt.Errorf("updating measurement %d: %w", m.ID, err)
	}
	return nil
}

func (r *MeasurementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&measurement.Measurement{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting measurement %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return measurement.ErrNotFound
	}
	return nil
}

func (r *MeasurementRepository) DeleteByKey(ctx context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Where("case_id = ? AND dictionary_id = ? AND check_time = ?", caseID, dictionaryID, checkTime)
	if templateID != 0 {
		q = q.Where("data_template_id = ?", templateID)
	}
	result := q.Delete(&measurement.Measurement{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting measurements by key: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MeasurementRepository) List(ctx context.Context, q *measurement.ListQuery) (*measurement.PagedDetails, error) {
	base := r.detailQuery(ctx)
	if q.CaseCode != "" {
		base = base.Where(`"case".case_code = ?`, q.CaseCode)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting measurements: %w", err)
	}

	var rows []*measurement.Detail
	err := base.
		Order("data_table.check_time DESC, data_table.id DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing measurements: %w", err)
	}

	return &measurement.PagedDetails{
		Details:    rows,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *MeasurementRepository) ListDetailsForCases(ctx context.Context, caseIDs []uint) ([]*measurement.Detail, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}
	var rows []*measurement.Detail
	err := r.detailQuery(ctx).
		Where("data_table.case_id IN ?", caseIDs).
		Order("data_table.case_id, data_table.check_time, data_table.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing measurements for cases: %w", err)
	}
	return rows, nil
}

func (r *MeasurementRepository) ValuesAt(ctx context.Context, caseID, templateID uint, checkTime time.Time) ([]*measurement.Detail, error) {
	var rows []*measurement.Detail
	err := r.detailQuery(ctx).
		Where("data_table.case_id = ? AND data_table.data_template_id = ? AND data_table.check_time = ?",
			caseID, templateID, checkTime).
		Order("dictionary.word_code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching measurement values: %w", err)
	}
	return rows, nil
}

func (r *MeasurementRepository) PointsFor(ctx context.Context, caseID, dictionaryID uint) ([]*measurement.Point, error) {
	var points []*measurement.Point
	err := r.db.WithContext(ctx).
		Model(&measurement.Measurement{}).
		Select("check_time, value").
		Where("case_id = ? AND dictionary_id = ?", caseID, dictionaryID).
		Order("check_time").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("fetching measurement points: %w", err)
	}
	return points, nil
}

func (r *MeasurementRepository) NumericEntriesWithData(ctx context.Context, caseID uint) ([]*measurement.AxisEntry, error) {
	var rows []*measurement.AxisEntry
	err := r.db.WithContext(ctx).
		Model(&measurement.Measurement{}).
		Select(`DISTINCT dictionary.word_code AS word_code,
dictionary.word_name AS word_name,
data_template.template_code AS template_code,
data_template.template_name AS template_name`).
		Joins("JOIN dictionary ON dictionary.id = data_table.dictionary_id").
		Joins("JOIN data_template ON data_template.id = data_table.data_template_id").
		Where("data_table.case_id = ? AND dictionary.data_type = ?", caseID, dictionary.DataTypeNumeric).
		Order("word_code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing numeric entries for case %d: %w", caseID, err)
	}
	return rows, nil
}

func (r *MeasurementRepository) CheckTimesFor(ctx context.Context, caseID, dictionaryID uint) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&measurement.Measurement{}).
		Distinct("check_time").
		Where("case_id = ? AND dictionary_id = ?", caseID, dictionaryID).
		Order("check_time").
		Pluck("check_time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("listing check times: %w", err)
	}
	return times, nil
}
