package models

import (
	"time"

	"github.com/google/uuid"
)

type IndexStatus string

const (
	IndexPending  IndexStatus = "pending"
	IndexRunning  IndexStatus = "indexing"
	IndexComplete IndexStatus = "indexed"
	IndexFailed   IndexStatus = "failed"
)

// Resume is a parsed upload kept for later screening and similarity search.
type Resume struct {
	ID               uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalFileName string      `gorm:"type:text" json:"original_filename"`
	FilePath         string      `gorm:"type:text" json:"-"`
	SizeBytes        int64       `json:"size_bytes"`
	PageCount        int         `json:"page_count"`
	ExtractedText    string      `gorm:"type:text;not null" json:"extracted_text"`
	StructuredData   string      `gorm:"type:jsonb" json:"-"`
	IndexStatus      IndexStatus `gorm:"type:text;not null;default:'pending';index" json:"index_status"`
	IndexError       *string     `gorm:"type:text" json:"index_error,omitempty"`
	CreatedAt        time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

// StructuredResume is the caller-facing shape of a parsed resume. Every list
// is non-nil and every missing scalar is the empty string.
type StructuredResume struct {
	FullName           string             `json:"full_name"`
	ContactInformation ContactInformation `json:"contact_information"`
	Summary            string             `json:"summary"`
	WorkExperience     []WorkExperience   `json:"work_experience"`
	Education          []Education        `json:"education"`
	Skills             Skills             `json:"skills"`
	Certifications     []Certification    `json:"certifications"`
	Projects           []Project          `json:"projects"`
}

type ContactInformation struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

type WorkExperience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type Education struct {
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
}

type Certification struct {
	Name    string `json:"name"`
	Issuer  string `json:"issuer"`
	Date    string `json:"date"`
	Expires string `json:"expires"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
}
