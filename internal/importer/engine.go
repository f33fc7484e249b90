// Package importer reconciles graduate survey spreadsheets against the
// student directory and upserts one graduate record per row.
package importer

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/pkg/apperrors"
)

// ErrEmptySpreadsheet is returned when a run receives no rows
var ErrEmptySpreadsheet = apperrors.ErrEmptySpreadsheet

// StudentDirectory lists and creates students
type StudentDirectory interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
}

// GraduateStore persists graduate records.
// UpdateByStudent must fail when the student has no record yet.
type GraduateStore interface {
	ListAll(ctx context.Context) ([]models.GraduateRecord, error)
	UpdateByStudent(ctx context.Context, studentID int64, payload Payload) (*models.GraduateRecord, error)
	CreateWithAttachments(ctx context.Context, studentID int64, payload Payload, files []*multipart.FileHeader) (*models.GraduateRecord, error)
}

// UnresolvedRow is a row no student could be matched or created for
type UnresolvedRow struct {
	Row              int    `json:"row"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Reason           string `json:"reason"`
	PlanText         string `json:"planText"`
	AdmissionChannel string `json:"admissionChannel"`
	AdmissionYear    string `json:"admissionYear"`
	CohortYear       string `json:"cohortYear"`
}

// Summary holds the totals of one run.
// Unresolved rows are counted in NotFound or Duplicated and also in Failed.
type Summary struct {
	TotalRows       int             `json:"totalRows"`
	Created         int             `json:"created"`
	Updated         int             `json:"updated"`
	Failed          int             `json:"failed"`
	StudentsCreated int             `json:"studentsCreated"`
	NotFound        int             `json:"notFound"`
	Duplicated      int             `json:"duplicated"`
	Unresolved      []UnresolvedRow `json:"unresolved"`
}

// Processed is the number of rows that reached an outcome
func (s Summary) Processed() int {
	return s.Created + s.Updated + s.Failed
}

// Config tunes an Engine
type Config struct {
	EmptyPolicy EmptyPolicy
	// Now drives the temporary RUT day bucket; defaults to time.Now
	Now func() time.Time
	// OnProgress is called after each row with the rows done so far
	OnProgress func(done, total int)
	// Vocabulary defaults to the embedded header vocabulary
	Vocabulary *Vocabulary
}

// Engine runs spreadsheet imports. Rows are processed one at a time in order.
type Engine struct {
	students  StudentDirectory
	graduates GraduateStore
	cfg       Config
	log       zerolog.Logger
}

// NewEngine creates an engine over the given collaborators
func NewEngine(students StudentDirectory, graduates GraduateStore, cfg Config, log zerolog.Logger) *Engine {
	if cfg.Vocabulary == nil {
		cfg.Vocabulary = DefaultVocabulary()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		students:  students,
		graduates: graduates,
		cfg:       cfg,
		log:       log,
	}
}

// Run reconciles rows against the current students and graduate records.
//
// Per-row failures never abort the run. A cancelled ctx stops before the next
// row and returns the partial summary together with ctx.Err().
func (e *Engine) Run(ctx context.Context, rows []Row, plans []models.StudyPlan) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, ErrEmptySpreadsheet
	}

	students, err := e.students.ListAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load students: %w", err)
	}
	graduates, err := e.graduates.ListAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load graduate records: %w", err)
	}

	index := newLookupIndex(students, graduates)
	rv := &resolver{
		index:    index,
		students: e.students,
		catalog:  NewPlanCatalog(plans),
		ruts:     newRUTGenerator(index.knownRUTs, e.cfg.Now),
		log:      e.log,
	}

	e.log.Info().
		Int("rows", len(rows)).
		Int("students", len(students)).
		Int("graduates", len(graduates)).
		Int("plans", len(plans)).
		Int("vocabularyVersion", e.cfg.Vocabulary.Version).
		Msg("Starting spreadsheet import")

	summary := Summary{TotalRows: len(rows), Unresolved: []UnresolvedRow{}}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			e.log.Warn().Int("processed", i).Int("total", len(rows)).Msg("Import cancelled")
			return summary, err
		}

		e.processRow(ctx, rv, row, &summary)

		if e.cfg.OnProgress != nil {
			e.cfg.OnProgress(i+1, len(rows))
		}
	}

	e.log.Info().
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Int("studentsCreated", summary.StudentsCreated).
		Int("notFound", summary.NotFound).
		Int("duplicated", summary.Duplicated).
		Msg("Spreadsheet import finished")

	return summary, nil
}

func (e *Engine) processRow(ctx context.Context, rv *resolver, row Row, summary *Summary) {
	vocab := e.cfg.Vocabulary
	r := &resolution{identity: identityOf(row, vocab)}

	studentID, outcome := rv.resolve(ctx, r)
	if outcome == OutcomeSkip {
		summary.Unresolved = append(summary.Unresolved, UnresolvedRow{
			Row:              row.Line,
			Name:             r.identity.FullName,
			Email:            r.identity.Email,
			Reason:           r.reason(),
			PlanText:         vocab.Lookup(row, FieldPlanText),
			AdmissionChannel: vocab.Lookup(row, FieldAdmissionChannel),
			AdmissionYear:    vocab.Lookup(row, FieldAdmissionYear),
			CohortYear:       vocab.Lookup(row, FieldCohortYear),
		})
		if r.duplicated() {
			summary.Duplicated++
		} else {
			summary.NotFound++
		}
		summary.Failed++
		e.log.Debug().Int("row", row.Line).Str("reason", r.reason()).Msg("Row unresolved")
		return
	}
	if outcome == OutcomeCreated {
		summary.StudentsCreated++
	}

	payload := buildPayload(row, vocab, e.cfg.EmptyPolicy)
	switch upsert(ctx, e.graduates, e.log, row.Line, studentID, payload) {
	case UpsertUpdated:
		summary.Updated++
	case UpsertCreated:
		summary.Created++
		rv.index.registerGraduate(studentID, r.identity.FullName, r.identity.Email)
	default:
		summary.Failed++
	}
}
