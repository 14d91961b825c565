package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/entity"
	"github.com/eslsoft/masterly/internal/repository"
)

const formatVersion = 1

// Section names used as record types in the NDJSON stream.
const (
	SectionConcepts  = "concepts"
	SectionWeakSpots = "weak_spots"
	SectionReviews   = "reviews"
)

var allSections = []string{SectionConcepts, SectionWeakSpots, SectionReviews}

var errNoSectionsSelected = errors.New("backup: no sections selected")

type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams a learner's study state to and from newline-delimited JSON.
type Service struct {
	concepts  repository.ConceptRepository
	weakSpots repository.WeakSpotRepository
	reviews   repository.ReviewLogRepository
	logger    logrus.FieldLogger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source stamped into the meta record.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(
	concepts repository.ConceptRepository,
	weakSpots repository.WeakSpotRepository,
	reviews repository.ReviewLogRepository,
	logger logrus.FieldLogger,
	opts ...Option,
) *Service {
	svc := &Service{
		concepts:  concepts,
		weakSpots: weakSpots,
		reviews:   reviews,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables    []string
	reporter  ProgressReporter
	learnerID string
}

// WithTables restricts export to the provided sections.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

// WithLearner limits the export to one learner's records.
func WithLearner(learnerID string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.learnerID = strings.TrimSpace(learnerID)
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts import to the provided sections.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	Tables     []string        `json:"tables"`
	RowCounts  map[string]int  `json:"row_counts"`
	Payload    json.RawMessage `json:"payload"`
}

// ImportStats counts the records applied per section.
type ImportStats map[string]int

type dataset struct {
	concepts  []entity.StudyConcept
	weakSpots []entity.WeakSpot
	reviews   []entity.ReviewLog
}

func (d dataset) payloads(section string) []any {
	switch section {
	case SectionConcepts:
		return lo.Map(d.concepts, func(c entity.StudyConcept, _ int) any { return c })
	case SectionWeakSpots:
		return lo.Map(d.weakSpots, func(w entity.WeakSpot, _ int) any { return w })
	case SectionReviews:
		return lo.Map(d.reviews, func(l entity.ReviewLog, _ int) any { return l })
	}
	return nil
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := selectSections(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	data, err := s.collect(ctx, sections, cfg.learnerID)
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(sections))
	for _, section := range sections {
		counts[section] = len(data.payloads(section))
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := s.now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Tables:     sections,
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, section := range sections {
		rows := data.payloads(section)
		reporter.StartTable(section, len(rows))
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeRecord(writer, record{Type: section, Payload: row}); err != nil {
				return fmt.Errorf("write %s record: %w", section, err)
			}
			reporter.Increment(section, 1)
		}
		reporter.FinishTable(section)
	}
	s.logger.WithField("sections", sections).WithField("rows", counts).Info("backup exported")
	return writer.Flush()
}

// Import applies every record of the requested sections. Concepts already
// present are overwritten with the backed-up state; weak spots merge by key.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (ImportStats, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sections, err := selectSections(cfg.tables)
	if err != nil {
		return nil, err
	}
	wanted := lo.SliceToMap(sections, func(section string) (string, bool) { return section, true })

	br := bufio.NewReader(r)
	var (
		metaSeen bool
		stats    = make(ImportStats)
	)

	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("decode record: %w", err)
			}

			switch {
			case rec.Type == "meta":
				if rec.Version != formatVersion {
					return nil, fmt.Errorf("backup: unsupported format version %d", rec.Version)
				}
				metaSeen = true
			case !metaSeen:
				return nil, errors.New("backup: missing meta record")
			case !wanted[rec.Type]:
				// Skip records for sections not requested.
			default:
				if len(rec.Payload) == 0 {
					return nil, fmt.Errorf("backup: missing payload for section %s", rec.Type)
				}
				if err := s.importRow(ctx, rec.Type, rec.Payload); err != nil {
					return nil, err
				}
				stats[rec.Type]++
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return nil, errors.New("backup: missing meta record")
	}
	s.logger.WithField("rows", map[string]int(stats)).Info("backup imported")
	return stats, nil
}

func (s *Service) collect(ctx context.Context, sections []string, learnerID string) (dataset, error) {
	var data dataset
	for _, section := range sections {
		switch section {
		case SectionConcepts:
			items, _, err := s.concepts.List(ctx, &repository.ListConceptQuery{
				LearnerID:   learnerID,
				FilterOrder: repository.FilterOrder{OrderBy: "concept"},
			})
			if err != nil {
				return dataset{}, fmt.Errorf("list concepts: %w", err)
			}
			data.concepts = items
		case SectionWeakSpots:
			items, err := s.weakSpots.List(ctx, learnerID, true)
			if err != nil {
				return dataset{}, fmt.Errorf("list weak spots: %w", err)
			}
			data.weakSpots = items
		case SectionReviews:
			items, err := s.reviews.List(ctx, learnerID)
			if err != nil {
				return dataset{}, fmt.Errorf("list review logs: %w", err)
			}
			data.reviews = items
		}
	}
	return data, nil
}

func (s *Service) importRow(ctx context.Context, section string, payload json.RawMessage) error {
	switch section {
	case SectionConcepts:
		var concept entity.StudyConcept
		if err := json.Unmarshal(payload, &concept); err != nil {
			return fmt.Errorf("decode concept: %w", err)
		}
		return s.restoreConcept(ctx, concept)
	case SectionWeakSpots:
		var spot entity.WeakSpot
		if err := json.Unmarshal(payload, &spot); err != nil {
			return fmt.Errorf("decode weak spot: %w", err)
		}
		if _, err := s.weakSpots.Upsert(ctx, spot); err != nil {
			return fmt.Errorf("restore weak spot %s: %w", spot.Key, err)
		}
		return nil
	case SectionReviews:
		var log entity.ReviewLog
		if err := json.Unmarshal(payload, &log); err != nil {
			return fmt.Errorf("decode review log: %w", err)
		}
		if err := s.reviews.Append(ctx, log); err != nil {
			return fmt.Errorf("restore review log %s: %w", log.Key, err)
		}
		return nil
	}
	return fmt.Errorf("backup: unknown section %q", section)
}

func (s *Service) restoreConcept(ctx context.Context, concept entity.StudyConcept) error {
	_, err := s.concepts.Create(ctx, concept)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entity.ErrDuplicateConcept) {
		return fmt.Errorf("restore concept %s: %w", concept.Key, err)
	}
	stored, err := s.concepts.Get(ctx, concept.Key)
	if err != nil {
		return fmt.Errorf("restore concept %s: %w", concept.Key, err)
	}
	concept.Version = stored.Version
	if _, err := s.concepts.Update(ctx, concept); err != nil {
		return fmt.Errorf("restore concept %s: %w", concept.Key, err)
	}
	return nil
}

func selectSections(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string{}, allSections...), nil
	}
	normalized := lo.Uniq(lo.FilterMap(requested, func(name string, _ int) (string, bool) {
		name = strings.ToLower(strings.TrimSpace(name))
		return name, name != ""
	}))
	if len(normalized) == 0 {
		return nil, errNoSectionsSelected
	}
	unknown := lo.Without(normalized, allSections...)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("backup: unknown sections %s", strings.Join(unknown, ", "))
	}
	// Keep the canonical order so concepts restore before their history.
	return lo.Filter(allSections, func(section string, _ int) bool {
		return lo.Contains(normalized, section)
	}), nil
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}
