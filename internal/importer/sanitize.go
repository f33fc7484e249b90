package importer

import (
	"strings"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/pkg/validation"
)

// Payload holds graduate record fields keyed by canonical field name
type Payload map[string]any

// legacyFields maps superseded field names onto their canonical replacement
var legacyFields = map[string]string{
	"company":  models.GraduateFieldEmployer,
	"salary":   models.GraduateFieldSalaryRange,
	"position": models.GraduateFieldJobTitle,
	"mail":     models.GraduateFieldEmail,
	"cohort":   models.GraduateFieldGraduationYear,
}

// EnumSets lists the allowed values of each categorical field
var EnumSets = map[string][]string{
	models.GraduateFieldAdmissionChannel:  AdmissionChannels,
	models.GraduateFieldEmploymentSector:  EmploymentSectors,
	models.GraduateFieldEstablishmentType: EstablishmentTypes,
}

// Sanitize returns a copy of p ready to persist:
//   - legacy names are folded into canonical ones and removed
//   - <field>Other is removed unless <field> is Otro
//   - nil and blank values are removed
//   - an email not shaped like local@domain.tld is removed
func Sanitize(p Payload) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}

	for legacy, canonical := range legacyFields {
		value, ok := out[legacy]
		if !ok {
			continue
		}
		if isBlank(out[canonical]) && !isBlank(value) {
			out[canonical] = value
		}
		delete(out, legacy)
	}

	for _, field := range models.GraduateEnumFields {
		if value, _ := out[field].(string); value != OtherValue {
			delete(out, field+models.OtherSuffix)
		}
	}

	for k, v := range out {
		if isBlank(v) {
			delete(out, k)
		}
	}

	if email, ok := out[models.GraduateFieldEmail].(string); ok {
		email = strings.TrimSpace(email)
		if validation.IsEmail(email) {
			out[models.GraduateFieldEmail] = email
		} else {
			delete(out, models.GraduateFieldEmail)
		}
	}

	return out
}

func isBlank(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case *string:
		return value == nil || strings.TrimSpace(*value) == ""
	case *int:
		return value == nil
	default:
		return false
	}
}

// buildPayload extracts the survey answers of a row
func buildPayload(row Row, vocab *Vocabulary, policy EmptyPolicy) Payload {
	p := Payload{
		models.GraduateFieldEmail:            vocab.Lookup(row, FieldEmail),
		models.GraduateFieldPhone:            vocab.Lookup(row, FieldPhone),
		models.GraduateFieldEmploymentStatus: vocab.Lookup(row, FieldEmploymentStatus),
		models.GraduateFieldEmployer:         vocab.Lookup(row, FieldEmployer),
		models.GraduateFieldJobTitle:         vocab.Lookup(row, FieldJobTitle),
		models.GraduateFieldSalaryRange:      vocab.Lookup(row, FieldSalaryRange),
		models.GraduateFieldLinkedin:         vocab.Lookup(row, FieldLinkedin),
		models.GraduateFieldComments:         vocab.Lookup(row, FieldComments),
	}

	setEnum(p, models.GraduateFieldAdmissionChannel,
		NormalizeEnum(vocab.Lookup(row, FieldAdmissionChannel), AdmissionChannels, policy))
	setEnum(p, models.GraduateFieldEmploymentSector,
		NormalizeEnum(vocab.Lookup(row, FieldEmploymentSector), EmploymentSectors, policy))
	setEnum(p, models.GraduateFieldEstablishmentType,
		NormalizeEnum(vocab.Lookup(row, FieldEstablishmentType), EstablishmentTypes, policy))

	if year, ok := ParseInt(vocab.Lookup(row, FieldCohortYear)); ok {
		p[models.GraduateFieldGraduationYear] = year
	}

	return Sanitize(p)
}

func setEnum(p Payload, field string, value EnumValue) {
	p[field] = value.Value
	p[field+models.OtherSuffix] = value.Other
}
