package importer

import (
	"fmt"
	"strings"
	"time"
)

// NoLastName is stored when a temporary student has a single-word name
const NoLastName = "Sin apellido"

const maxTemporarySequence = 999

// rutGenerator hands out placeholder RUTs of the form 99.<YY><DDD>.<SSS>-9,
// skipping every RUT already known in the current run.
type rutGenerator struct {
	known map[string]struct{}
	now   func() time.Time
}

func newRUTGenerator(known map[string]struct{}, now func() time.Time) *rutGenerator {
	if now == nil {
		now = time.Now
	}
	return &rutGenerator{known: known, now: now}
}

// next returns the first free RUT of today's bucket. When all sequences are
// taken it returns the last one anyway and exhausted is true; the caller
// accepts a possible duplicate in that case.
func (g *rutGenerator) next() (rut string, exhausted bool) {
	t := g.now()
	prefix := fmt.Sprintf("99.%02d%03d", t.Year()%100, t.YearDay())

	for seq := 1; seq <= maxTemporarySequence; seq++ {
		candidate := fmt.Sprintf("%s.%03d-9", prefix, seq)
		if !g.has(candidate) {
			return candidate, false
		}
	}
	return fmt.Sprintf("%s.%03d-9", prefix, maxTemporarySequence), true
}

func (g *rutGenerator) has(rut string) bool {
	_, ok := g.known[NormalizeRUT(rut)]
	return ok
}

func (g *rutGenerator) add(rut string) {
	g.known[NormalizeRUT(rut)] = struct{}{}
}

// splitFullName takes the first token as first name and the rest as last name
func splitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], NoLastName
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
