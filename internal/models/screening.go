package models

import (
	"time"

	"github.com/google/uuid"
)

// Screening records one resume-versus-job comparison.
type Screening struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID       *uuid.UUID `gorm:"type:uuid;index" json:"resume_id,omitempty"`
	JobDescription string     `gorm:"type:text;not null" json:"job_description"`
	MatchScore     float64    `json:"match_score"`
	ResultData     string     `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Resume *Resume `gorm:"foreignKey:ResumeID" json:"-"`
}

func (Screening) TableName() string {
	return "screenings"
}

// ScreeningResult is the shaped comparison returned to callers.
type ScreeningResult struct {
	MatchScore         float64         `json:"matchScore"`
	MatchDetails       MatchDetails    `json:"matchDetails"`
	Strengths          []string        `json:"strengths"`
	Weaknesses         []string        `json:"weaknesses"`
	Recommendations    []string        `json:"recommendations"`
	Summary            string          `json:"summary"`
	KeywordAnalysis    KeywordAnalysis `json:"keywordAnalysis"`
	InterviewQuestions []string        `json:"interviewQuestions"`
}

type MatchDetails struct {
	SkillsMatch     []SkillMatch       `json:"skillsMatch"`
	ExperienceMatch []RequirementMatch `json:"experienceMatch"`
	EducationMatch  []RequirementMatch `json:"educationMatch"`
}

type SkillMatch struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	Match      bool   `json:"match"`
	Confidence string `json:"confidence"`
}

type RequirementMatch struct {
	Requirement string `json:"requirement"`
	Matched     bool   `json:"matched"`
	Comments    string `json:"comments"`
}

type KeywordAnalysis struct {
	JobKeywords            []string `json:"jobKeywords"`
	ResumeKeywords         []string `json:"resumeKeywords"`
	MissingKeywords        []string `json:"missingKeywords"`
	KeywordMatchPercentage float64  `json:"keywordMatchPercentage"`
}
