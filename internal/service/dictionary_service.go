package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/pkg/metrics"
)

// DictionaryService owns the controlled vocabulary: entry CRUD, per-class
// code allocation, and CSV bulk import.
type DictionaryService struct {
	repo      dictionary.Repository
	log       *zap.Logger
	metrics   *metrics.Collector
	allocator codeAllocator
}

func NewDictionaryService(repo dictionary.Repository, log *zap.Logger, m *metrics.Collector) *DictionaryService {
	return &DictionaryService{
		repo:      repo,
		log:       log,
		metrics:   m,
		allocator: codeAllocator{metrics: m},
	}
}

func (s *DictionaryService) CreateEntry(ctx context.Context, cmd *dictionary.CreateEntryCommand) (*dictionary.Entry, error) {
	if err := validateEntryCommand(cmd); err != nil {
		return nil, err
	}

	prefix, err := codes.WordClassPrefix(cmd.WordClass)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}

	entry := &dictionary.Entry{
		WordName:        cmd.WordName,
		WordEng:         cmd.WordEng,
		WordShort:       cmd.WordShort,
		WordClass:       cmd.WordClass,
		WordApply:       cmd.WordApply,
		WordBelong:      cmd.WordBelong,
		DataType:        cmd.DataType,
		InputType:       cmd.InputType,
		Options:         cmd.Options,
		FollowupOptions: cmd.FollowupOptions,
		HasUnit:         cmd.HasUnit,
		Unit:            cmd.Unit,
		IsScore:         cmd.IsScore,
		ScoreFunc:       cmd.ScoreFunc,
	}
	if entry.InputType == "" {
		entry.InputType = dictionary.InputText
	}

	_, err = s.allocator.allocate(ctx, prefix,
		s.repo.CodesWithPrefix,
		func(ctx context.Context, code string) error {
			entry.WordCode = code
			return s.repo.Create(ctx, entry)
		},
		dictionary.ErrCodeConflict,
	)
	if err != nil {
		return nil, err
	}

	s.metrics.DictionaryEntriesTotal.Inc()
	s.log.Info("dictionary entry created",
		zap.String("word_code", entry.WordCode),
		zap.String("word_class", entry.WordClass),
	)
	return entry, nil
}

func (s *DictionaryService) GetEntry(ctx context.Context, wordCode string) (*dictionary.Entry, error) {
	return s.repo.GetByCode(ctx, wordCode)
}

func (s *DictionaryService) UpdateEntry(ctx context.Context, wordCode string, cmd *dictionary.UpdateEntryCommand) (*dictionary.Entry, error) {
	entry, err := s.repo.GetByCode(ctx, wordCode)
	if err != nil {
		return nil, err
	}

	// Word class is part of the code; changing it would orphan the prefix.
	if cmd.WordClass != nil && *cmd.WordClass != entry.WordClass {
		return nil, &ValidationError{Fields: []string{"word_class cannot be changed after creation"}}
	}
	if cmd.InputType != nil && !cmd.InputType.IsValid() {
		return nil, &ValidationError{Fields: []string{fmt.Sprintf("unknown input_type %q", *cmd.InputType)}}
	}

	if cmd.WordName != nil {
		entry.WordName = *cmd.WordName
	}
	if cmd.WordEng != nil {
		entry.WordEng = *cmd.WordEng
	}
	if cmd.WordShort != nil {
		entry.WordShort = *cmd.WordShort
	}
	if cmd.WordApply != nil {
		entry.WordApply = *cmd.WordApply
	}
	if cmd.WordBelong != nil {
		entry.WordBelong = *cmd.WordBelong
	}
	if cmd.DataType != nil {
		entry.DataType = *cmd.DataType
	}
	if cmd.InputType != nil {
		entry.InputType = *cmd.InputType
	}
	if cmd.Options != nil {
		entry.Options = *cmd.Options
	}
	if cmd.FollowupOptions != nil {
		entry.FollowupOptions = cmd.FollowupOptions
	}
	if cmd.HasUnit != nil {
		entry.HasUnit = *cmd.HasUnit
	}
	if cmd.Unit != nil {
		entry.Unit = *cmd.Unit
	}
	if cmd.IsScore != nil {
		entry.IsScore = *cmd.IsScore
	}
	if cmd.ScoreFunc != nil {
		entry.ScoreFunc = *cmd.ScoreFunc
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DictionaryService) DeleteEntry(ctx context.Context, wordCode string) error {
	return s.repo.DeleteByCode(ctx, wordCode)
}

func (s *DictionaryService) ListEntries(ctx context.Context, q *dictionary.ListEntriesQuery) (*dictionary.PagedEntries, error) {
	if q.WordClass != "" && !codes.IsValidWordClass(q.WordClass) {
		return nil, &ValidationError{Fields: []string{fmt.Sprintf("unknown word_class %q", q.WordClass)}}
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

// importColumns are the accepted CSV headers, in any order.
var importColumns = []string{"word_name", "word_eng", "word_short", "word_class", "word_apply", "word_belong", "data_type"}

// ImportCSV parses a CSV stream and creates one entry per row. Rows that fail
// validation or code allocation are reported individually; the rest are
// still created.
func (s *DictionaryService) ImportCSV(ctx context.Context, r io.Reader) (*dictionary.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &ValidationError{Fields: []string{"empty or unreadable CSV file"}}
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range importColumns {
		if _, ok := cols[required]; !ok {
			return nil, &ValidationError{Fields: []string{fmt.Sprintf("missing CSV column %q", required)}}
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &dictionary.ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		cmd := &dictionary.CreateEntryCommand{
			WordName:   field(record, "word_name"),
			WordEng:    field(record, "word_eng"),
			WordShort:  field(record, "word_short"),
			WordClass:  field(record, "word_class"),
			WordApply:  field(record, "word_apply"),
			WordBelong: field(record, "word_belong"),
			DataType:   field(record, "data_type"),
		}
		if _, err := s.CreateEntry(ctx, cmd); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.SuccessCount++
	}

	s.log.Info("dictionary CSV import finished",
		zap.Int("created", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
	)
	return result, nil
}

func validateEntryCommand(cmd *dictionary.CreateEntryCommand) error {
	var fields []string
	if cmd.WordName == "" {
		fields = append(fields, "word_name is required")
	}
	if cmd.WordClass == "" {
		fields = append(fields, "word_class is required")
	} else if !codes.IsValidWordClass(cmd.WordClass) {
		fields = append(fields, fmt.Sprintf("unknown word_class %q", cmd.WordClass))
	}
	if cmd.WordApply == "" {
		fields = append(fields, "word_apply is required")
	}
	if cmd.InputType != "" && !cmd.InputType.IsValid() {
		fields = append(fields, fmt.Sprintf("unknown input_type %q", cmd.InputType))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
