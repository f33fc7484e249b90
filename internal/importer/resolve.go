package importer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
)

// Unresolved row reasons
const (
	ReasonDuplicateNameEmail = "duplicate name+email"
	ReasonDuplicateName      = "duplicate name"
	ReasonNotFound           = "no matching student/graduate and temporary student could not be created (missing admission year or plan)"
)

// Outcome tags what a resolution strategy did with a row
type Outcome int

const (
	// OutcomeSkip hands the row to the next strategy
	OutcomeSkip Outcome = iota
	// OutcomeMatched means an existing student was found
	OutcomeMatched
	// OutcomeCreated means a temporary student was created
	OutcomeCreated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeCreated:
		return "created"
	default:
		return "skip"
	}
}

// lookupIndex is the per-run lookup state. It is built once before the loop
// and updated in place as temporary students and graduate records are created.
type lookupIndex struct {
	studentsByRUT map[string]int64
	knownRUTs     map[string]struct{}

	studentsByName map[string]int64
	dupNames       map[string]struct{}

	graduatesByNameEmail map[string]int64
	dupNameEmails        map[string]struct{}
}

func newLookupIndex(students []models.Student, graduates []models.GraduateRecord) *lookupIndex {
	idx := &lookupIndex{
		studentsByRUT:        make(map[string]int64, len(students)),
		knownRUTs:            make(map[string]struct{}, len(students)),
		studentsByName:       make(map[string]int64, len(students)),
		dupNames:             make(map[string]struct{}),
		graduatesByNameEmail: make(map[string]int64, len(graduates)),
		dupNameEmails:        make(map[string]struct{}),
	}
	for _, s := range students {
		idx.registerStudent(s.ID, s.RUT, s.FullName())
	}
	for _, g := range graduates {
		idx.registerGraduate(g.StudentID, g.StudentName, g.Email)
	}
	return idx
}

func (idx *lookupIndex) registerStudent(id int64, rut, fullName string) {
	if key := NormalizeRUT(rut); key != "" {
		idx.knownRUTs[key] = struct{}{}
		if _, exists := idx.studentsByRUT[key]; !exists {
			idx.studentsByRUT[key] = id
		}
	}
	register(idx.studentsByName, idx.dupNames, nameKey(fullName), id)
}

func (idx *lookupIndex) registerGraduate(studentID int64, fullName, email string) {
	register(idx.graduatesByNameEmail, idx.dupNameEmails, nameEmailKey(fullName, email), studentID)
}

// register adds key to m, moving it to dups when it already points elsewhere
func register(m map[string]int64, dups map[string]struct{}, key string, id int64) {
	if key == "" {
		return
	}
	if existing, ok := m[key]; ok && existing != id {
		dups[key] = struct{}{}
		return
	}
	m[key] = id
}

// nameKey ignores the last name placeholder of single-word temporary
// students so the sheet's "Juan" keeps matching the stored "Juan Sin apellido".
func nameKey(fullName string) string {
	name := strings.TrimSpace(fullName)
	if trimmed := strings.TrimSuffix(name, " "+NoLastName); trimmed != "" {
		name = trimmed
	}
	return normalizeText(name)
}

func nameEmailKey(fullName, email string) string {
	name := nameKey(fullName)
	mail := strings.ToLower(strings.TrimSpace(email))
	if name == "" || mail == "" {
		return ""
	}
	return name + "|" + mail
}

// rowIdentity is what a row says about the person it belongs to
type rowIdentity struct {
	Line             int
	RUT              string
	FullName         string
	Email            string
	AdmissionYear    int
	HasAdmissionYear bool
	Plan             PlanQuery
}

func identityOf(row Row, vocab *Vocabulary) rowIdentity {
	id := rowIdentity{
		Line:     row.Line,
		RUT:      vocab.Lookup(row, FieldRUT),
		FullName: vocab.Lookup(row, FieldFullName),
		Email:    vocab.Lookup(row, FieldEmail),
	}
	id.AdmissionYear, id.HasAdmissionYear = ParseInt(vocab.Lookup(row, FieldAdmissionYear))
	id.Plan = PlanQuery{
		ID:      vocab.Lookup(row, FieldPlanID),
		Text:    vocab.Lookup(row, FieldPlanText),
		Year:    id.AdmissionYear,
		HasYear: id.HasAdmissionYear,
	}
	return id
}

// resolution carries one row through the strategy chain
type resolution struct {
	identity     rowIdentity
	dupNameEmail bool
	dupName      bool
}

// reason explains an unresolved row; name+email collisions win over name ones
func (r *resolution) reason() string {
	switch {
	case r.dupNameEmail:
		return ReasonDuplicateNameEmail
	case r.dupName:
		return ReasonDuplicateName
	default:
		return ReasonNotFound
	}
}

func (r *resolution) duplicated() bool {
	return r.dupNameEmail || r.dupName
}

type strategy func(ctx context.Context, r *resolution) (int64, Outcome)

// resolver maps rows to student ids
type resolver struct {
	index    *lookupIndex
	students StudentDirectory
	catalog  *PlanCatalog
	ruts     *rutGenerator
	log      zerolog.Logger
}

func (rv *resolver) strategies() []strategy {
	return []strategy{
		rv.byRUT,
		rv.byGraduateNameEmail,
		rv.byStudentName,
		rv.byTemporaryStudent,
	}
}

// resolve runs the strategies in order until one matches or creates a student
func (rv *resolver) resolve(ctx context.Context, r *resolution) (int64, Outcome) {
	for _, s := range rv.strategies() {
		if id, outcome := s(ctx, r); outcome != OutcomeSkip {
			return id, outcome
		}
	}
	return 0, OutcomeSkip
}

func (rv *resolver) byRUT(_ context.Context, r *resolution) (int64, Outcome) {
	key := NormalizeRUT(r.identity.RUT)
	if key == "" {
		return 0, OutcomeSkip
	}
	if id, ok := rv.index.studentsByRUT[key]; ok {
		return id, OutcomeMatched
	}
	return 0, OutcomeSkip
}

func (rv *resolver) byGraduateNameEmail(_ context.Context, r *resolution) (int64, Outcome) {
	key := nameEmailKey(r.identity.FullName, r.identity.Email)
	if key == "" {
		return 0, OutcomeSkip
	}
	if _, dup := rv.index.dupNameEmails[key]; dup {
		r.dupNameEmail = true
		return 0, OutcomeSkip
	}
	if id, ok := rv.index.graduatesByNameEmail[key]; ok {
		return id, OutcomeMatched
	}
	return 0, OutcomeSkip
}

func (rv *resolver) byStudentName(_ context.Context, r *resolution) (int64, Outcome) {
	key := nameKey(r.identity.FullName)
	if key == "" {
		return 0, OutcomeSkip
	}
	if _, dup := rv.index.dupNames[key]; dup {
		r.dupName = true
		return 0, OutcomeSkip
	}
	if id, ok := rv.index.studentsByName[key]; ok {
		return id, OutcomeMatched
	}
	return 0, OutcomeSkip
}

func (rv *resolver) byTemporaryStudent(ctx context.Context, r *resolution) (int64, Outcome) {
	ident := r.identity
	if strings.TrimSpace(ident.RUT) != "" || r.duplicated() {
		return 0, OutcomeSkip
	}
	first, last := splitFullName(ident.FullName)
	if first == "" || !ident.HasAdmissionYear {
		return 0, OutcomeSkip
	}
	plan := rv.catalog.Resolve(ident.Plan)
	if plan == nil {
		return 0, OutcomeSkip
	}

	rut, exhausted := rv.ruts.next()
	if exhausted {
		rv.log.Warn().
			Int("row", ident.Line).
			Str("rut", rut).
			Msg("Temporary RUT sequence exhausted for today, reusing the last slot")
	}

	student, err := rv.students.Create(ctx, dto.CreateStudentRequest{
		RUT:           rut,
		FirstName:     first,
		LastName:      last,
		AdmissionYear: ident.AdmissionYear,
		PlanID:        plan.ID,
		Temporary:     true,
	})
	if err != nil {
		logFailure(rv.log.Error(), err).
			Int("row", ident.Line).
			Str("rut", rut).
			Msg("Failed to create temporary student")
		return 0, OutcomeSkip
	}

	rv.ruts.add(rut)
	rv.index.registerStudent(student.ID, rut, ident.FullName)
	rv.log.Info().
		Int("row", ident.Line).
		Int64("studentId", student.ID).
		Str("rut", rut).
		Int64("planId", plan.ID).
		Msg("Temporary student created")
	return student.ID, OutcomeCreated
}
