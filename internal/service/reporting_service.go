package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/domain/template"
)

// ReportingService serves the read-side endpoints: the merged patient
// listing, per-case template summaries and details, and the visualization
// series and axis options.
type ReportingService struct {
	merged       patient.MergedCaseReader
	cases        casefile.Repository
	templates    template.Repository
	entries      dictionary.Repository
	measurements measurement.Repository
	log          *zap.Logger
}

func NewReportingService(
	merged patient.MergedCaseReader,
	cases casefile.Repository,
	templates template.Repository,
	entries dictionary.Repository,
	measurements measurement.Repository,
	log *zap.Logger,
) *ReportingService {
	return &ReportingService{
		merged:       merged,
		cases:        cases,
		templates:    templates,
		entries:      entries,
		measurements: measurements,
		log:          log,
	}
}

// ListMergedPatients returns one row per identity carrying its most recently
// created case, paginated in the database.
func (s *ReportingService) ListMergedPatients(ctx context.Context, q *patient.MergedListQuery) (*patient.PagedMergedRows, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.merged.ListMergedCases(ctx, q)
}

// CaseData groups one case's measurement rows for the per-patient report.
type CaseData struct {
	CaseCode string                `json:"case_code"`
	Details  []*measurement.Detail `json:"details"`
}

// PatientCaseData returns every measurement of every case under a national
// ID, grouped by case.
func (s *ReportingService) PatientCaseData(ctx context.Context, nationalID string) ([]*CaseData, error) {
	paged, err := s.cases.List(ctx, &casefile.ListCasesQuery{
		NationalID: nationalID,
		Page:       1,
		PageSize:   maxPageSize,
	})
	if err != nil {
		return nil, err
	}
	if len(paged.Cases) == 0 {
		return nil, patient.ErrIdentityNotFound
	}

	caseIDs := make([]uint, 0, len(paged.Cases))
	codeByID := make(map[uint]string, len(paged.Cases))
	for _, c := range paged.Cases {
		caseIDs = append(caseIDs, c.ID)
		codeByID[c.ID] = c.CaseCode
	}

	details, err := s.measurements.ListDetailsForCases(ctx, caseIDs)
	if err != nil {
		return nil, err
	}

	byCase := make(map[string][]*measurement.Detail)
	for _, d := range details {
		byCase[d.CaseCode] = append(byCase[d.CaseCode], d)
	}

	out := make([]*CaseData, 0, len(paged.Cases))
	for _, c := range paged.Cases {
		out = append(out, &CaseData{
			CaseCode: c.CaseCode,
			Details:  byCase[c.CaseCode],
		})
	}
	return out, nil
}

// TemplateSummary groups the distinct (template, check_time) pairs recorded
// across a set of cases by template category: the index of filled-in forms.
// Identical pairs from different cases collapse into one entry.
func (s *ReportingService) TemplateSummary(ctx context.Context, caseCodes []string) ([]*measurement.SummaryGroup, error) {
	if len(caseCodes) == 0 {
		return nil, &ValidationError{Fields: []string{"case_codes cannot be empty"}}
	}
	resolved, err := s.cases.GetByCodes(ctx, caseCodes)
	if err != nil {
		return nil, err
	}
	var unresolved []string
	caseIDs := make([]uint, 0, len(caseCodes))
	for _, code := range caseCodes {
		c, ok := resolved[code]
		if !ok {
			unresolved = append(unresolved, code)
			continue
		}
		caseIDs = append(caseIDs, c.ID)
	}
	if len(unresolved) > 0 {
		return nil, &ValidationError{
			Fields: []string{fmt.Sprintf("unknown cases: %v", unresolved)},
		}
	}

	details, err := s.measurements.ListDetailsForCases(ctx, caseIDs)
	if err != nil {
		return nil, err
	}

	type pair struct {
		templateCode string
		checkTime    int64
	}
	seen := make(map[pair]struct{})
	groups := make(map[string]*measurement.SummaryGroup)
	var order []string

	for _, d := range details {
		p := pair{d.TemplateCode, d.CheckTime.UnixNano()}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		g, ok := groups[d.TemplateCategory]
		if !ok {
			g = &measurement.SummaryGroup{Category: d.TemplateCategory}
			groups[d.TemplateCategory] = g
			order = append(order, d.TemplateCategory)
		}
		g.Entries = append(g.Entries, &measurement.SummaryEntry{
			TemplateCode: d.TemplateCode,
			TemplateName: d.TemplateName,
			CheckTime:    d.CheckTime,
		})
	}

	out := make([]*measurement.SummaryGroup, 0, len(order))
	for _, category := range order {
		out = append(out, groups[category])
	}
	return out, nil
}

// TemplateDetail returns the values a case recorded under one template at
// one exact timestamp.
func (s *ReportingService) TemplateDetail(ctx context.Context, caseCode, templateCode, rawCheckTime string) ([]*measurement.Detail, error) {
	checkTime, err := measurement.ParseCheckTime(rawCheckTime)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	t, err := s.templates.GetByCode(ctx, templateCode)
	if err != nil {
		return nil, err
	}
	return s.measurements.ValuesAt(ctx, c.ID, t.ID, checkTime)
}

// VisualizationOptions lists the Y-axis candidates for a case: its
// numeric-typed entries that have at least one data point.
func (s *ReportingService) VisualizationOptions(ctx context.Context, caseCode string) ([]*measurement.AxisEntry, error) {
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	return s.measurements.NumericEntriesWithData(ctx, c.ID)
}

// XAxisOptions lists the distinct timestamps a case recorded for one entry.
func (s *ReportingService) XAxisOptions(ctx context.Context, caseCode, wordCode string) ([]string, error) {
	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.GetByCode(ctx, wordCode)
	if err != nil {
		return nil, err
	}
	times, err := s.measurements.CheckTimesFor(ctx, c.ID, e.ID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, measurement.FormatCheckTime(t))
	}
	return out, nil
}

// VisualizationData builds one chartable series per requested entry,
// restricted to the requested X-axis timestamps. Only timestamps with a
// recorded value appear; series never pad missing points. Non-numeric entries
// and entries without matching data are omitted from the result.
func (s *ReportingService) VisualizationData(ctx context.Context, caseCode string, rawCheckTimes, wordCodes []string) ([]*measurement.Series, error) {
	var fields []string
	if len(rawCheckTimes) == 0 {
		fields = append(fields, "check_times cannot be empty")
	}
	if len(wordCodes) == 0 {
		fields = append(fields, "word_codes cannot be empty")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	wanted := make(map[int64]struct{}, len(rawCheckTimes))
	for _, raw := range rawCheckTimes {
		ct, err := measurement.ParseCheckTime(raw)
		if err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		wanted[ct.UnixNano()] = struct{}{}
	}

	c, err := s.cases.GetByCode(ctx, caseCode)
	if err != nil {
		return nil, err
	}
	resolved, err := s.entries.GetByCodes(ctx, wordCodes)
	if err != nil {
		return nil, err
	}

	series := make([]*measurement.Series, 0, len(wordCodes))
	for _, code := range wordCodes {
		e, ok := resolved[code]
		if !ok {
			return nil, dictionary.ErrEntryNotFound
		}
		if !e.IsNumeric() {
			continue
		}
		points, err := s.measurements.PointsFor(ctx, c.ID, e.ID)
		if err != nil {
			return nil, err
		}
		matched := points[:0]
		for _, p := range points {
			if _, ok := wanted[p.CheckTime.UnixNano()]; ok {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			continue
		}
		series = append(series, &measurement.Series{
			WordCode: e.WordCode,
			WordName: e.WordName,
			Points:   matched,
		})
	}
	return series, nil
}
