package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
)

func TestSanitize_DropsOtherCompanionWhenEnumIsNotOther(t *testing.T) {
	out := Sanitize(Payload{
		models.GraduateFieldAdmissionChannel:      "Centro de Formación Técnica (CFT)",
		models.GraduateFieldAdmissionChannelOther: "x",
	})

	assert.Equal(t, "Centro de Formación Técnica (CFT)", out[models.GraduateFieldAdmissionChannel])
	assert.NotContains(t, out, models.GraduateFieldAdmissionChannelOther)
}

func TestSanitize_KeepsOtherCompanionForOther(t *testing.T) {
	out := Sanitize(Payload{
		models.GraduateFieldEmploymentSector:      OtherValue,
		models.GraduateFieldEmploymentSectorOther: "Cooperativa",
	})

	assert.Equal(t, "Cooperativa", out[models.GraduateFieldEmploymentSectorOther])
}

func TestSanitize_DropsBlankValues(t *testing.T) {
	var nilString *string
	out := Sanitize(Payload{
		models.GraduateFieldPhone:    "   ",
		models.GraduateFieldEmployer: nil,
		models.GraduateFieldJobTitle: nilString,
		models.GraduateFieldComments: "ok",
	})

	assert.Equal(t, Payload{models.GraduateFieldComments: "ok"}, out)
}

func TestSanitize_FoldsLegacyFields(t *testing.T) {
	out := Sanitize(Payload{
		"company":                    "Liceo A-12",
		"position":                   "Profesor",
		models.GraduateFieldJobTitle: "Jefe de UTP",
		"cohort":                     2020,
	})

	assert.Equal(t, "Liceo A-12", out[models.GraduateFieldEmployer])
	assert.Equal(t, "Jefe de UTP", out[models.GraduateFieldJobTitle])
	assert.Equal(t, 2020, out[models.GraduateFieldGraduationYear])
	for legacy := range legacyFields {
		assert.NotContains(t, out, legacy)
	}
}

func TestSanitize_Email(t *testing.T) {
	out := Sanitize(Payload{models.GraduateFieldEmail: " ana@correo.cl "})
	assert.Equal(t, "ana@correo.cl", out[models.GraduateFieldEmail])

	out = Sanitize(Payload{models.GraduateFieldEmail: "ana@correo"})
	assert.NotContains(t, out, models.GraduateFieldEmail)
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := Payload{"mail": "ana@correo.cl", models.GraduateFieldPhone: ""}
	_ = Sanitize(in)

	require.Len(t, in, 2)
	assert.Contains(t, in, "mail")
}

func TestBuildPayload(t *testing.T) {
	row := NewRow(2, map[string]string{
		"Correo electrónico":                 "ana@correo.cl",
		"Vía de ingreso":                     "PSU",
		"Sector en que trabaja":              "Fundación educacional",
		"Tipo de establecimiento":            "",
		"Periodo de Estudios\nAño de egreso": "2022.0",
		"Cargo":                              "Docente",
	})

	p := buildPayload(row, DefaultVocabulary(), EmptyBlank)

	assert.Equal(t, "ana@correo.cl", p[models.GraduateFieldEmail])
	assert.Equal(t, "PAES/PSU", p[models.GraduateFieldAdmissionChannel])
	assert.NotContains(t, p, models.GraduateFieldAdmissionChannelOther)
	assert.Equal(t, OtherValue, p[models.GraduateFieldEmploymentSector])
	assert.Equal(t, "Fundación educacional", p[models.GraduateFieldEmploymentSectorOther])
	assert.NotContains(t, p, models.GraduateFieldEstablishmentType)
	assert.Equal(t, 2022, p[models.GraduateFieldGraduationYear])
	assert.Equal(t, "Docente", p[models.GraduateFieldJobTitle])
}

func TestBuildPayload_EmptyAsOther(t *testing.T) {
	row := NewRow(2, map[string]string{"Nombre": "Ana"})

	p := buildPayload(row, DefaultVocabulary(), EmptyAsOther)

	assert.Equal(t, OtherValue, p[models.GraduateFieldEstablishmentType])
	assert.Equal(t, NotInformed, p[models.GraduateFieldEstablishmentTypeOther])
}
