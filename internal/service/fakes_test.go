package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/domain/template"
	"github.com/medicore/medicore/pkg/metrics"
)

// Prometheus collectors register globally, so the test binary shares one.
var testMetrics = metrics.NewCollector("medicore_test")

var testLogger = zap.NewNop()

// --- dictionary ---

type fakeDictionaryRepo struct {
	nextID  uint
	entries map[string]*dictionary.Entry
	// conflictOnce simulates a concurrent writer winning one code.
	conflictOnce map[string]bool
}

func newFakeDictionaryRepo() *fakeDictionaryRepo {
	return &fakeDictionaryRepo{
		entries:      map[string]*dictionary.Entry{},
		conflictOnce: map[string]bool{},
	}
}

func (f *fakeDictionaryRepo) Create(_ context.Context, e *dictionary.Entry) error {
	if f.conflictOnce[e.WordCode] {
		delete(f.conflictOnce, e.WordCode)
		return dictionary.ErrCodeConflict
	}
	if _, exists := f.entries[e.WordCode]; exists {
		return dictionary.ErrCodeConflict
	}
	f.nextID++
	e.ID = f.nextID
	f.entries[e.WordCode] = e
	return nil
}

func (f *fakeDictionaryRepo) GetByCode(_ context.Context, wordCode string) (*dictionary.Entry, error) {
	e, ok := f.entries[wordCode]
	if !ok {
		return nil, dictionary.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeDictionaryRepo) GetByCodes(_ context.Context, wordCodes []string) (map[string]*dictionary.Entry, error) {
	out := map[string]*dictionary.Entry{}
	for _, code := range wordCodes {
		if e, ok := f.entries[code]; ok {
			out[code] = e
		}
	}
	return out, nil
}

func (f *fakeDictionaryRepo) Update(_ context.Context, e *dictionary.Entry) error {
	f.entries[e.WordCode] = e
	return nil
}

func (f *fakeDictionaryRepo) DeleteByCode(_ context.Context, wordCode string) error {
	if _, ok := f.entries[wordCode]; !ok {
		return dictionary.ErrEntryNotFound
	}
	delete(f.entries, wordCode)
	return nil
}

func (f *fakeDictionaryRepo) List(_ context.Context, q *dictionary.ListEntriesQuery) (*dictionary.PagedEntries, error) {
	var all []*dictionary.Entry
	for _, e := range f.entries {
		if q.WordClass != "" && e.WordClass != q.WordClass {
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].WordCode < all[j].WordCode })
	return &dictionary.PagedEntries{
		Entries:    all,
		TotalCount: int64(len(all)),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (f *fakeDictionaryRepo) CodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for code := range f.entries {
		if strings.HasPrefix(code, prefix) {
			out = append(out, code)
		}
	}
	return out, nil
}

// --- patient ---

type fakePatientRepo struct {
	identities map[string]*patient.Identity
	caseCounts map[string]int64
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		identities: map[string]*patient.Identity{},
		caseCounts: map[string]int64{},
	}
}

func (f *fakePatientRepo) GetByNationalID(_ context.Context, nationalID string) (*patient.Identity, error) {
	i, ok := f.identities[nationalID]
	if !ok {
		return nil, patient.ErrIdentityNotFound
	}
	return i, nil
}

func (f *fakePatientRepo) Save(_ context.Context, i *patient.Identity) error {
	f.identities[i.IdentityID] = i
	return nil
}

func (f *fakePatientRepo) Update(_ context.Context, nationalID string, cmd *patient.UpdateIdentityCommand) (*patient.Identity, error) {
	i, ok := f.identities[nationalID]
	if !ok {
		return nil, patient.ErrIdentityNotFound
	}
	if cmd.Name != nil {
		i.Name = *cmd.Name
	}
	if cmd.Gender != nil {
		i.Gender = *cmd.Gender
	}
	if cmd.BirthDate != nil {
		i.BirthDate = *cmd.BirthDate
	}
	return i, nil
}

func (f *fakePatientRepo) Delete(_ context.Context, nationalID string) error {
	if _, ok := f.identities[nationalID]; !ok {
		return patient.ErrIdentityNotFound
	}
	delete(f.identities, nationalID)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, q *patient.ListIdentitiesQuery) (*patient.PagedIdentities, error) {
	var all []*patient.Identity
	for _, i := range f.identities {
		all = append(all, i)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].IdentityID < all[j].IdentityID })
	return &patient.PagedIdentities{
		Identities: all,
		TotalCount: int64(len(all)),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (f *fakePatientRepo) CaseCount(_ context.Context, nationalID string) (int64, error) {
	return f.caseCounts[nationalID], nil
}

// --- archive ---

type fakeArchiveRepo struct {
	nextID    uint
	archives  map[string]*archive.Archive
	caseCodes map[uint][]string
}

func newFakeArchiveRepo() *fakeArchiveRepo {
	return &fakeArchiveRepo{
		archives:  map[string]*archive.Archive{},
		caseCodes: map[uint][]string{},
	}
}

func (f *fakeArchiveRepo) add(code, name string) *archive.Archive {
	f.nextID++
	a := &archive.Archive{ID: f.nextID, ArchiveCode: code, Name: name}
	f.archives[code] = a
	return a
}

func (f *fakeArchiveRepo) Create(_ context.Context, a *archive.Archive) error {
	if _, exists := f.archives[a.ArchiveCode]; exists {
		return archive.ErrCodeConflict
	}
	f.nextID++
	a.ID = f.nextID
	f.archives[a.ArchiveCode] = a
	return nil
}

func (f *fakeArchiveRepo) GetByCode(_ context.Context, archiveCode string) (*archive.Archive, error) {
	a, ok := f.archives[archiveCode]
	if !ok {
		return nil, archive.ErrArchiveNotFound
	}
	return a, nil
}

func (f *fakeArchiveRepo) Update(_ context.Context, a *archive.Archive) error {
	f.archives[a.ArchiveCode] = a
	return nil
}

func (f *fakeArchiveRepo) DeleteByCode(_ context.Context, archiveCode string) error {
	if _, ok := f.archives[archiveCode]; !ok {
		return archive.ErrArchiveNotFound
	}
	delete(f.archives, archiveCode)
	return nil
}

func (f *fakeArchiveRepo) List(_ context.Context, page, pageSize int) (*archive.PagedArchives, error) {
	var all []*archive.WithCount
	for _, a := range f.archives {
		all = append(all, &archive.WithCount{Archive: *a})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return &archive.PagedArchives{
		Archives:   all,
		TotalCount: int64(len(all)),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (f *fakeArchiveRepo) CodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for code := range f.archives {
		if strings.HasPrefix(code, prefix) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeArchiveRepo) ResolveByCodes(_ context.Context, archiveCodes []string) (map[string]*archive.Archive, error) {
	out := map[string]*archive.Archive{}
	for _, code := range archiveCodes {
		if a, ok := f.archives[code]; ok {
			out[code] = a
		}
	}
	return out, nil
}

func (f *fakeArchiveRepo) ResolveByIDs(_ context.Context, ids []uint) (map[uint]*archive.Archive, error) {
	out := map[uint]*archive.Archive{}
	for _, a := range f.archives {
		for _, id := range ids {
			if a.ID == id {
				out[id] = a
			}
		}
	}
	return out, nil
}

func (f *fakeArchiveRepo) CaseCount(_ context.Context, archiveID uint) (int64, error) {
	return int64(len(f.caseCodes[archiveID])), nil
}

func (f *fakeArchiveRepo) CaseCodesFor(_ context.Context, archiveID uint) ([]string, error) {
	return f.caseCodes[archiveID], nil
}

// --- case ---

type fakeCaseRepo struct {
	nextID       uint
	cases        map[string]*casefile.Case
	archiveLinks map[uint][]uint
	images       map[uint]*casefile.Image
	nextImageID  uint

	// patients lets DeleteByCode mirror the store's orphan-identity cascade.
	patients *fakePatientRepo
	archives *fakeArchiveRepo

	// failCreate makes every case insert fail with this error, before any
	// write lands, mirroring a rolled-back transaction.
	failCreate error
}

func newFakeCaseRepo(patients *fakePatientRepo, archives *fakeArchiveRepo) *fakeCaseRepo {
	return &fakeCaseRepo{
		cases:        map[string]*casefile.Case{},
		archiveLinks: map[uint][]uint{},
		images:       map[uint]*casefile.Image{},
		patients:     patients,
		archives:     archives,
	}
}

// Create seeds a case row directly; the service write path goes through
// CreateWithIdentity.
func (f *fakeCaseRepo) Create(_ context.Context, c *casefile.Case) error {
	if _, exists := f.cases[c.CaseCode]; exists {
		return casefile.ErrCodeConflict
	}
	f.nextID++
	c.ID = f.nextID
	f.cases[c.CaseCode] = c
	if f.patients != nil {
		f.patients.caseCounts[c.IdentityID]++
	}
	return nil
}

func (f *fakeCaseRepo) CreateWithIdentity(ctx context.Context, identity *patient.Identity, c *casefile.Case, archiveIDs []uint) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	// The identity lands only once the case insert succeeds, matching the
	// store's single-transaction semantics.
	if err := f.Create(ctx, c); err != nil {
		return err
	}
	if f.patients != nil {
		f.patients.identities[identity.IdentityID] = identity
	}
	if len(archiveIDs) > 0 {
		f.archiveLinks[c.ID] = append([]uint(nil), archiveIDs...)
	}
	return nil
}

func (f *fakeCaseRepo) UpdateWithIdentity(_ context.Context, identity *patient.Identity, c *casefile.Case, archiveIDs *[]uint) error {
	if f.patients != nil {
		f.patients.identities[identity.IdentityID] = identity
	}
	f.cases[c.CaseCode] = c
	if archiveIDs != nil {
		f.archiveLinks[c.ID] = append([]uint(nil), (*archiveIDs)...)
	}
	return nil
}

func (f *fakeCaseRepo) GetByCode(_ context.Context, caseCode string) (*casefile.Case, error) {
	c, ok := f.cases[caseCode]
	if !ok {
		return nil, casefile.ErrCaseNotFound
	}
	return c, nil
}

func (f *fakeCaseRepo) GetByCodes(_ context.Context, caseCodes []string) (map[string]*casefile.Case, error) {
	out := map[string]*casefile.Case{}
	for _, code := range caseCodes {
		if c, ok := f.cases[code]; ok {
			out[code] = c
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) DeleteByCode(_ context.Context, caseCode string) error {
	c, ok := f.cases[caseCode]
	if !ok {
		return casefile.ErrCaseNotFound
	}
	delete(f.cases, caseCode)
	delete(f.archiveLinks, c.ID)
	if f.patients != nil {
		f.patients.caseCounts[c.IdentityID]--
		if f.patients.caseCounts[c.IdentityID] <= 0 {
			delete(f.patients.identities, c.IdentityID)
			delete(f.patients.caseCounts, c.IdentityID)
		}
	}
	return nil
}

func (f *fakeCaseRepo) List(_ context.Context, q *casefile.ListCasesQuery) (*casefile.PagedCases, error) {
	var all []*casefile.Case
	for _, c := range f.cases {
		if q.NationalID != "" && c.IdentityID != q.NationalID {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return &casefile.PagedCases{
		Cases:      all,
		TotalCount: int64(len(all)),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (f *fakeCaseRepo) CodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for code := range f.cases {
		if strings.HasPrefix(code, prefix) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) ArchiveCodesFor(_ context.Context, caseID uint) ([]string, error) {
	var out []string
	for _, id := range f.archiveLinks[caseID] {
		if f.archives == nil {
			continue
		}
		for code, a := range f.archives.archives {
			if a.ID == id {
				out = append(out, code)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCaseRepo) AddImage(_ context.Context, img *casefile.Image) error {
	f.nextImageID++
	img.ID = f.nextImageID
	f.images[img.ID] = img
	return nil
}

func (f *fakeCaseRepo) ListImages(_ context.Context, caseID uint) ([]*casefile.Image, error) {
	var out []*casefile.Image
	for _, img := range f.images {
		if img.CaseID == caseID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) DeleteImage(_ context.Context, id uint) error {
	if _, ok := f.images[id]; !ok {
		return casefile.ErrImageNotFound
	}
	delete(f.images, id)
	return nil
}

// --- merged listing ---

type fakeMergedReader struct {
	rows []*patient.MergedCaseRow
}

func (f *fakeMergedReader) ListMergedCases(_ context.Context, q *patient.MergedListQuery) (*patient.PagedMergedRows, error) {
	return &patient.PagedMergedRows{
		Rows:       f.rows,
		TotalCount: int64(len(f.rows)),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

// --- template ---

type fakeCategoryRepo struct {
	nextID     uint
	categories map[uint]*template.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uint]*template.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *template.Category) error {
	f.nextID++
	c.ID = f.nextID
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*template.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, template.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *template.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.categories[id]; !ok {
		return template.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) List(_ context.Context, page, pageSize int) ([]*template.CategoryWithCount, int64, error) {
	var all []*template.CategoryWithCount
	for _, c := range f.categories {
		all = append(all, &template.CategoryWithCount{Category: *c})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
}

func (f *fakeCategoryRepo) NameExists(_ context.Context, name string, excludeID uint) (bool, error) {
	for _, c := range f.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTemplateRepo struct {
	nextID    uint
	templates map[string]*template.Definition
	links     map[string][]uint
	entryIDs  map[uint]bool
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates: map[string]*template.Definition{},
		links:     map[string][]uint{},
		entryIDs:  map[uint]bool{},
	}
}

func (f *fakeTemplateRepo) Create(_ context.Context, d *template.Definition, entryIDs []uint) error {
	if _, exists := f.templates[d.TemplateCode]; exists {
		return template.ErrCodeConflict
	}
	f.nextID++
	d.ID = f.nextID
	f.templates[d.TemplateCode] = d
	f.links[d.TemplateCode] = append([]uint(nil), entryIDs...)
	return nil
}

func (f *fakeTemplateRepo) GetByCode(_ context.Context, templateCode string) (*template.Definition, error) {
	d, ok := f.templates[templateCode]
	if !ok {
		return nil, template.ErrTemplateNotFound
	}
	return d, nil
}

func (f *fakeTemplateRepo) GetByCodes(_ context.Context, templateCodes []string) (map[string]*template.Definition, error) {
	out := map[string]*template.Definition{}
	for _, code := range templateCodes {
		if d, ok := f.templates[code]; ok {
			out[code] = d
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, d *template.Definition, entryIDs *[]uint) error {
	f.templates[d.TemplateCode] = d
	if entryIDs != nil {
		f.links[d.TemplateCode] = append([]uint(nil), (*entryIDs)...)
	}
	return nil
}

func (f *fakeTemplateRepo) DeleteByCode(_ context.Context, templateCode string) error {
	if _, ok := f.templates[templateCode]; !ok {
		return template.ErrTemplateNotFound
	}
	delete(f.templates, templateCode)
	delete(f.links, templateCode)
	return nil
}

func (f *fakeTemplateRepo) List(_ context.Context, q *template.ListDefinitionsQuery) (*template.PagedDefinitions, error) {
	var all []*template.Definition
	for _, d := range f.templates {
		if q.CategoryID != nil && d.CategoryID != *q.CategoryID {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return &template.PagedDefinitions{
		Definitions: all,
		TotalCount:  int64(len(all)),
		Page:        q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (f *fakeTemplateRepo) CodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for code := range f.templates {
		if strings.HasPrefix(code, prefix) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) EntryIDsExist(_ context.Context, ids []uint) ([]uint, error) {
	var missing []uint
	for _, id := range ids {
		if !f.entryIDs[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// --- measurement ---

type fakeMeasurementRepo struct {
	nextID uint
	rows   map[uint]*measurement.Measurement

	// detailsByCaseID backs the joined read paths; tests seed it directly.
	detailsByCaseID map[uint][]*measurement.Detail
	axisEntries     map[uint][]*measurement.AxisEntry

	lastBatchUpsert  bool
	batchCalls       int
	deleteByKeyCalls int
}

func newFakeMeasurementRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{
		rows:            map[uint]*measurement.Measurement{},
		detailsByCaseID: map[uint][]*measurement.Detail{},
		axisEntries:     map[uint][]*measurement.AxisEntry{},
	}
}

func (f *fakeMeasurementRepo) keyTaken(m *measurement.Measurement) (uint, bool) {
	for id, row := range f.rows {
		if row.CaseID == m.CaseID &&
			row.DataTemplateID == m.DataTemplateID &&
			row.DictionaryID == m.DictionaryID &&
			row.CheckTime.Equal(m.CheckTime) {
			return id, true
		}
	}
	return 0, false
}

func (f *fakeMeasurementRepo) Create(_ context.Context, m *measurement.Measurement) error {
	if _, taken := f.keyTaken(m); taken {
		return measurement.ErrDuplicate
	}
	f.nextID++
	m.ID = f.nextID
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMeasurementRepo) BatchCreate(_ context.Context, rows []*measurement.Measurement, upsert bool) error {
	f.batchCalls++
	f.lastBatchUpsert = upsert
	for _, m := range rows {
		if id, taken := f.keyTaken(m); taken {
			if !upsert {
				return measurement.ErrDuplicate
			}
			f.rows[id].Value = m.Value
			continue
		}
		f.nextID++
		m.ID = f.nextID
		f.rows[m.ID] = m
	}
	return nil
}

func (f *fakeMeasurementRepo) GetByID(_ context.Context, id uint) (*measurement.Measurement, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, measurement.ErrNotFound
	}
	return m, nil
}

func (f *fakeMeasurementRepo) GetDetailByID(_ context.Context, id uint) (*measurement.Detail, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, measurement.ErrNotFound
	}
	return &measurement.Detail{ID: m.ID, Value: m.Value, CheckTime: m.CheckTime}, nil
}

func (f *fakeMeasurementRepo) FindByKey(_ context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) ([]*measurement.Measurement, error) {
	var out []*measurement.Measurement
	for _, m := range f.rows {
		if m.CaseID != caseID || m.DictionaryID != dictionaryID || !m.CheckTime.Equal(checkTime) {
			continue
		}
		if templateID != 0 && m.DataTemplateID != templateID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMeasurementRepo) Update(_ context.Context, m *measurement.Measurement) error {
	f.rows[m.ID] = m
	return nil
}

func (f *fakeMeasurementRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.rows[id]; !ok {
		return measurement.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMeasurementRepo) DeleteByKey(_ context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) (int64, error) {
	f.deleteByKeyCalls++
	var deleted int64
	for id, m := range f.rows {
		if m.CaseID != caseID || m.DictionaryID != dictionaryID || !m.CheckTime.Equal(checkTime) {
			continue
		}
		if templateID != 0 && m.DataTemplateID != templateID {
			continue
		}
		delete(f.rows, id)
		deleted++
	}
	return deleted, nil
}

func (f *fakeMeasurementRepo) List(_ context.Context, q *measurement.ListQuery) (*measurement.PagedDetails, error) {
	return &measurement.PagedDetails{Page: q.Page, PageSize: q.PageSize}, nil
}

func (f *fakeMeasurementRepo) ListDetailsForCases(_ context.Context, caseIDs []uint) ([]*measurement.Detail, error) {
	var out []*measurement.Detail
	for _, id := range caseIDs {
		out = append(out, f.detailsByCaseID[id]...)
	}
	return out, nil
}

func (f *fakeMeasurementRepo) ValuesAt(_ context.Context, caseID, templateID uint, checkTime time.Time) ([]*measurement.Detail, error) {
	var out []*measurement.Detail
	for _, d := range f.detailsByCaseID[caseID] {
		if d.CheckTime.Equal(checkTime) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeMeasurementRepo) PointsFor(_ context.Context, caseID, dictionaryID uint) ([]*measurement.Point, error) {
	var out []*measurement.Point
	for _, m := range f.rows {
		if m.CaseID == caseID && m.DictionaryID == dictionaryID {
			out = append(out, &measurement.Point{CheckTime: m.CheckTime, Value: m.Value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckTime.Before(out[j].CheckTime) })
	return out, nil
}

func (f *fakeMeasurementRepo) NumericEntriesWithData(_ context.Context, caseID uint) ([]*measurement.AxisEntry, error) {
	return f.axisEntries[caseID], nil
}

func (f *fakeMeasurementRepo) CheckTimesFor(_ context.Context, caseID, dictionaryID uint) ([]time.Time, error) {
	var out []time.Time
	for _, m := range f.rows {
		if m.CaseID == caseID && m.DictionaryID == dictionaryID {
			out = append(out, m.CheckTime)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
