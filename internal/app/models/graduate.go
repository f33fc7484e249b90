package models

import "time"

// Canonical graduate payload field names shared by the importer, the HTTP layer and storage
const (
	GraduateFieldEmail                  = "email"
	GraduateFieldPhone                  = "phone"
	GraduateFieldAdmissionChannel       = "admissionChannel"
	GraduateFieldAdmissionChannelOther  = "admissionChannelOther"
	GraduateFieldEmploymentStatus       = "employmentStatus"
	GraduateFieldEmployer               = "employer"
	GraduateFieldJobTitle               = "jobTitle"
	GraduateFieldSalaryRange            = "salaryRange"
	GraduateFieldEmploymentSector       = "employmentSector"
	GraduateFieldEmploymentSectorOther  = "employmentSectorOther"
	GraduateFieldEstablishmentType      = "establishmentType"
	GraduateFieldEstablishmentTypeOther = "establishmentTypeOther"
	GraduateFieldGraduationYear         = "graduationYear"
	GraduateFieldLinkedin               = "linkedin"
	GraduateFieldComments               = "comments"
)

// OtherSuffix names the free-text companion of a categorical field
const OtherSuffix = "Other"

// GraduateColumns maps payload field names to 'graduates' columns
var GraduateColumns = map[string]string{
	GraduateFieldEmail:                  "email",
	GraduateFieldPhone:                  "phone",
	GraduateFieldAdmissionChannel:       "admission_channel",
	GraduateFieldAdmissionChannelOther:  "admission_channel_other",
	GraduateFieldEmploymentStatus:       "employment_status",
	GraduateFieldEmployer:               "employer",
	GraduateFieldJobTitle:               "job_title",
	GraduateFieldSalaryRange:            "salary_range",
	GraduateFieldEmploymentSector:       "employment_sector",
	GraduateFieldEmploymentSectorOther:  "employment_sector_other",
	GraduateFieldEstablishmentType:      "establishment_type",
	GraduateFieldEstablishmentTypeOther: "establishment_type_other",
	GraduateFieldGraduationYear:         "graduation_year",
	GraduateFieldLinkedin:               "linkedin",
	GraduateFieldComments:               "comments",
}

// GraduateEnumFields are the categorical fields that carry an Other companion
var GraduateEnumFields = []string{
	GraduateFieldAdmissionChannel,
	GraduateFieldEmploymentSector,
	GraduateFieldEstablishmentType,
}

// GraduateRecord is the graduate follow-up survey of one student ("egresado")
type GraduateRecord struct {
	ID                     int64     `json:"id" db:"id"`
	StudentID              int64     `json:"studentId" db:"student_id"`
	StudentName            string    `json:"studentName,omitempty" db:"student_name"` // joined from students
	Email                  string    `json:"email,omitempty" db:"email"`
	Phone                  string    `json:"phone,omitempty" db:"phone"`
	AdmissionChannel       string    `json:"admissionChannel,omitempty" db:"admission_channel"`
	AdmissionChannelOther  string    `json:"admissionChannelOther,omitempty" db:"admission_channel_other"`
	EmploymentStatus       string    `json:"employmentStatus,omitempty" db:"employment_status"`
	Employer               string    `json:"employer,omitempty" db:"employer"`
	JobTitle               string    `json:"jobTitle,omitempty" db:"job_title"`
	SalaryRange            string    `json:"salaryRange,omitempty" db:"salary_range"`
	EmploymentSector       string    `json:"employmentSector,omitempty" db:"employment_sector"`
	EmploymentSectorOther  string    `json:"employmentSectorOther,omitempty" db:"employment_sector_other"`
	EstablishmentType      string    `json:"establishmentType,omitempty" db:"establishment_type"`
	EstablishmentTypeOther string    `json:"establishmentTypeOther,omitempty" db:"establishment_type_other"`
	GraduationYear         int       `json:"graduationYear,omitempty" db:"graduation_year"`
	Linkedin               string    `json:"linkedin,omitempty" db:"linkedin"`
	Comments               string    `json:"comments,omitempty" db:"comments"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time `json:"updatedAt" db:"updated_at"`

	Documents []GraduateDocument `json:"documents,omitempty"`
}

// GraduateDocument is a file attached to a graduate record
type GraduateDocument struct {
	ID         int64     `json:"id" db:"id"`
	GraduateID int64     `json:"graduateId" db:"graduate_id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FilePath   string    `json:"filePath" db:"file_path"`
	FileURL    string    `json:"fileUrl" db:"-"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	MimeType   string    `json:"mimeType" db:"mime_type"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
