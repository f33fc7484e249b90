package importer

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OtherValue is the storage value for answers outside the allowed set
const OtherValue = "Otro"

// NotInformed is stored as the Other text of an empty answer under EmptyAsOther
const NotInformed = "No informado"

// EmptyPolicy decides what an empty categorical answer becomes
type EmptyPolicy int

const (
	// EmptyBlank keeps empty answers empty
	EmptyBlank EmptyPolicy = iota
	// EmptyAsOther stores empty answers as Otro / No informado
	EmptyAsOther
)

// Allowed categorical values, as stored by the graduates table
var (
	AdmissionChannels = []string{
		"PAES/PSU",
		"Centro de Formación Técnica (CFT)",
		"Instituto Profesional (IP)",
		"Continuidad de estudios",
		"Ingreso especial",
		OtherValue,
	}
	EmploymentSectors = []string{
		"Público",
		"Privado",
		"Organización sin fines de lucro (ONG)",
		"Independiente",
		OtherValue,
	}
	EstablishmentTypes = []string{
		"Municipal",
		"Servicio local de educación",
		"Particular subvencionado",
		"Particular pagado",
		OtherValue,
	}
)

// EnumValue is a categorical answer mapped onto the allowed set
type EnumValue struct {
	Value string
	Other string
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey maps a column header onto the canonical key space:
// no diacritics, lower case, no whitespace, no '_' or '-'.
func NormalizeKey(s string) string {
	s = strings.ToLower(stripDiacritics(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// normalizeText is the comparison form of free text: no diacritics,
// lower case, single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(stripDiacritics(s))), " ")
}

// NormalizeRUT upper-cases a RUT and strips its formatting
func NormalizeRUT(rut string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(rut))
}

// NormalizeEnum maps free text onto one of allowed. Matching is case and
// diacritic insensitive: exact match first, then containment in either direction.
// Otro only matches exactly. Anything else unmatched becomes Otro with the raw
// text kept as Other.
func NormalizeEnum(raw string, allowed []string, policy EmptyPolicy) EnumValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if policy == EmptyAsOther {
			return EnumValue{Value: OtherValue, Other: NotInformed}
		}
		return EnumValue{}
	}

	needle := normalizeText(trimmed)
	for _, candidate := range allowed {
		if normalizeText(candidate) == needle {
			return EnumValue{Value: candidate}
		}
	}

	for _, candidate := range allowed {
		c := normalizeText(candidate)
		if c == "" || candidate == OtherValue {
			continue
		}
		if strings.Contains(needle, c) || strings.Contains(c, needle) {
			return EnumValue{Value: candidate}
		}
	}

	return EnumValue{Value: OtherValue, Other: trimmed}
}

// ParseInt accepts a cell value as an integer when it parses to a finite
// number. Decimals are truncated, never rounded.
func ParseInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
