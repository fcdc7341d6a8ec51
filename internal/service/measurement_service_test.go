package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/domain/template"
)

type measurementFixture struct {
	svc          *MeasurementService
	measurements *fakeMeasurementRepo
	checkTime    time.Time
}

// newMeasurementFixture seeds one case (C000001), one template (T000001) and
// two dictionary entries (INF000001, INF000002).
func newMeasurementFixture(t *testing.T) *measurementFixture {
	t.Helper()
	ctx := context.Background()

	patients := newFakePatientRepo()
	archives := newFakeArchiveRepo()
	cases := newFakeCaseRepo(patients, archives)
	require.NoError(t, cases.Create(ctx, &casefile.Case{
		CaseCode:   "C000001",
		IdentityID: testNationalID,
		Name:       "张三",
		Gender:     patient.GenderMale,
	}))

	templates := newFakeTemplateRepo()
	require.NoError(t, templates.Create(ctx, &template.Definition{
		TemplateCode: "T000001",
		TemplateName: "肾功能",
	}, nil))

	entries := newFakeDictionaryRepo()
	for i, name := range []string{"肌酐", "尿素氮"} {
		require.NoError(t, entries.Create(ctx, &dictionary.Entry{
			WordCode:  []string{"INF000001", "INF000002"}[i],
			WordName:  name,
			WordClass: "info_name",
			DataType:  dictionary.DataTypeNumeric,
		}))
	}

	measurements := newFakeMeasurementRepo()
	checkTime, err := measurement.ParseCheckTime("2024-05-01 09:30:00")
	require.NoError(t, err)

	return &measurementFixture{
		svc:          NewMeasurementService(measurements, cases, templates, entries, testLogger, testMetrics),
		measurements: measurements,
		checkTime:    checkTime,
	}
}

func TestMeasurementCreate_ResolvesCodes(t *testing.T) {
	f := newMeasurementFixture(t)

	detail, err := f.svc.Create(context.Background(), &measurement.CreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	})
	require.NoError(t, err)
	assert.NotZero(t, detail.ID)
	assert.JSONEq(t, `"102"`, string(detail.Value))
}

func TestMeasurementCreate_DuplicateKeyRejected(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	cmd := &measurement.CreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	}
	_, err := f.svc.Create(ctx, cmd)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, cmd)
	require.ErrorIs(t, err, measurement.ErrDuplicate)
}

func TestMeasurementCreate_UnknownCase(t *testing.T) {
	f := newMeasurementFixture(t)

	_, err := f.svc.Create(context.Background(), &measurement.CreateCommand{
		CaseCode:     "C999999",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	})
	require.ErrorIs(t, err, casefile.ErrCaseNotFound)
}

func TestBatchCreate_InsertMode(t *testing.T) {
	f := newMeasurementFixture(t)

	n, err := f.svc.BatchCreate(context.Background(), &measurement.BatchCreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		Items: []measurement.BatchItem{
			{WordCode: "INF000001", Value: datatypes.JSON(`"102"`), CheckTime: f.checkTime},
			{WordCode: "INF000002", Value: datatypes.JSON(`"7.1"`), CheckTime: f.checkTime},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.measurements.batchCalls)
	assert.False(t, f.measurements.lastBatchUpsert)
}

func TestBatchCreate_DuplicateFailsWithoutUpsert(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	items := []measurement.BatchItem{
		{WordCode: "INF000001", Value: datatypes.JSON(`"102"`), CheckTime: f.checkTime},
	}
	_, err := f.svc.BatchCreate(ctx, &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001", Items: items,
	})
	require.NoError(t, err)

	_, err = f.svc.BatchCreate(ctx, &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001", Items: items,
	})
	require.ErrorIs(t, err, measurement.ErrDuplicate)
}

func TestBatchCreate_UpsertOverwrites(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	_, err := f.svc.BatchCreate(ctx, &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001",
		Items: []measurement.BatchItem{
			{WordCode: "INF000001", Value: datatypes.JSON(`"102"`), CheckTime: f.checkTime},
		},
	})
	require.NoError(t, err)

	n, err := f.svc.BatchCreate(ctx, &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001",
		Items: []measurement.BatchItem{
			{WordCode: "INF000001", Value: datatypes.JSON(`"98"`), CheckTime: f.checkTime},
		},
		Upsert: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.measurements.lastBatchUpsert)

	require.Len(t, f.measurements.rows, 1)
	for _, row := range f.measurements.rows {
		assert.JSONEq(t, `"98"`, string(row.Value))
	}
}

func TestBatchCreate_UnknownEntriesListed(t *testing.T) {
	f := newMeasurementFixture(t)

	_, err := f.svc.BatchCreate(context.Background(), &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001",
		Items: []measurement.BatchItem{
			{WordCode: "INF000001", Value: datatypes.JSON(`"102"`), CheckTime: f.checkTime},
			{WordCode: "INF999999", Value: datatypes.JSON(`"1"`), CheckTime: f.checkTime},
			{WordCode: "INF000002", CheckTime: f.checkTime},
		},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[0], "INF999999")
	assert.Contains(t, vErr.Fields[0], "INF000002 (empty value)")
	assert.Equal(t, 0, f.measurements.batchCalls, "nothing written on a partial failure")
}

func TestBatchCreate_EmptyBatchRejected(t *testing.T) {
	f := newMeasurementFixture(t)

	_, err := f.svc.BatchCreate(context.Background(), &measurement.BatchCreateCommand{
		CaseCode: "C000001", TemplateCode: "T000001",
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestFindByKey_EmptyTemplateMatchesAny(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &measurement.CreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	})
	require.NoError(t, err)

	rows, err := f.svc.FindByKey(ctx, &measurement.Key{
		CaseCode:  "C000001",
		WordCode:  "INF000001",
		CheckTime: f.checkTime,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUpdateValueByKey(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &measurement.CreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	})
	require.NoError(t, err)

	key := &measurement.Key{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		CheckTime:    f.checkTime,
	}
	detail, err := f.svc.UpdateValueByKey(ctx, key, datatypes.JSON(`"110"`))
	require.NoError(t, err)
	assert.JSONEq(t, `"110"`, string(detail.Value))
}

func TestDeleteByKey(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &measurement.CreateCommand{
		CaseCode:     "C000001",
		TemplateCode: "T000001",
		WordCode:     "INF000001",
		Value:        datatypes.JSON(`"102"`),
		CheckTime:    f.checkTime,
	})
	require.NoError(t, err)

	key := &measurement.Key{
		CaseCode:  "C000001",
		WordCode:  "INF000001",
		CheckTime: f.checkTime,
	}
	n, err := f.svc.DeleteByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.svc.DeleteByKey(ctx, key)
	require.ErrorIs(t, err, measurement.ErrNotFound)
}

func TestDeleteByKey_RemovesAllTemplatesInOneCall(t *testing.T) {
	f := newMeasurementFixture(t)
	ctx := context.Background()

	for _, templateID := range []uint{1, 2} {
		require.NoError(t, f.measurements.Create(ctx, &measurement.Measurement{
			CaseID:         1,
			DataTemplateID: templateID,
			DictionaryID:   1,
			Value:          datatypes.JSON(`"102"`),
			CheckTime:      f.checkTime,
		}))
	}

	n, err := f.svc.DeleteByKey(ctx, &measurement.Key{
		CaseCode:  "C000001",
		WordCode:  "INF000001",
		CheckTime: f.checkTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.measurements.deleteByKeyCalls)
}
