package models

import "time"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UploadResponse struct {
	Success          bool              `json:"success"`
	ExtractedText    string            `json:"extractedText"`
	StructuredResume *StructuredResume `json:"structuredResume"`
	ResumeID         string            `json:"resumeId,omitempty"`
}

type ScreenRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	ResumeID       string `json:"resumeId,omitempty"`
}

type ScreenResponse struct {
	Success bool `json:"success"`
	ScreeningResult
	ScreeningID string `json:"screeningId,omitempty"`
}

type ResumeResponse struct {
	Success          bool              `json:"success"`
	ID               string            `json:"id"`
	OriginalFileName string            `json:"originalFileName"`
	PageCount        int               `json:"pageCount"`
	ExtractedText    string            `json:"extractedText"`
	StructuredResume *StructuredResume `json:"structuredResume"`
	IndexStatus      string            `json:"indexStatus"`
	IndexError       *string           `json:"indexError,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type ScreeningResponse struct {
	Success        bool             `json:"success"`
	ID             string           `json:"id"`
	ResumeID       string           `json:"resumeId,omitempty"`
	JobDescription string           `json:"jobDescription"`
	Result         *ScreeningResult `json:"result"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchHit is one matching resume. DocType is "resume" when ResumeID is a
// stored resume id and "resume_file" when it is the name of an ingested file.
type SearchHit struct {
	ResumeID string  `json:"resumeId"`
	DocType  string  `json:"docType"`
	Score    float32 `json:"score"`
	Snippet  string  `json:"snippet"`
}

type SearchResponse struct {
	Success bool        `json:"success"`
	Results []SearchHit `json:"results"`
}
