package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"jobportal/resume-screener/internal/models"
)

// The raw* types mirror what the model is asked to return. Every field is
// optional and tolerant of the usual type drift (numbers as strings, a lone
// value where a list was requested); defaults are applied by the Shape*
// functions, never here.

type rawScreening struct {
	MatchScore         flexNumber               `json:"match_score"`
	SkillsMatch        flexList[rawSkillMatch]  `json:"skills_match"`
	ExperienceMatch    flexList[rawRequirement] `json:"experience_match"`
	EducationMatch     flexList[rawRequirement] `json:"education_match"`
	KeywordAnalysis    *rawKeywordAnalysis      `json:"keyword_analysis"`
	Strengths          flexList[flexString]     `json:"strengths"`
	Gaps               flexList[flexString]     `json:"gaps"`
	Recommendations    flexList[flexString]     `json:"recommendations"`
	InterviewQuestions flexList[flexString]     `json:"interview_questions"`
	Summary            flexString               `json:"summary"`
}

type rawSkillMatch struct {
	Skill      flexString `json:"skill"`
	Importance flexString `json:"importance"`
	Match      flexBool   `json:"match"`
	Confidence flexString `json:"confidence"`
}

type rawRequirement struct {
	Requirement flexString `json:"requirement"`
	Matched     flexBool   `json:"matched"`
	Comments    flexString `json:"comments"`
}

type rawKeywordAnalysis struct {
	JobKeywords            flexList[flexString] `json:"job_keywords"`
	ResumeKeywords         flexList[flexString] `json:"resume_keywords"`
	MissingKeywords        flexList[flexString] `json:"missing_keywords"`
	KeywordMatchPercentage flexNumber           `json:"keyword_match_percentage"`
}

func (k *rawKeywordAnalysis) UnmarshalJSON(data []byte) error {
	type plain rawKeywordAnalysis
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*k = rawKeywordAnalysis(p)
	}
	return nil
}

type rawResume struct {
	FullName           flexString               `json:"full_name"`
	ContactInformation *rawContact              `json:"contact_information"`
	Summary            flexString               `json:"summary"`
	WorkExperience     flexList[rawWork]        `json:"work_experience"`
	Education          flexList[rawEducation]   `json:"education"`
	Skills             *rawSkills               `json:"skills"`
	Certifications     flexList[rawCertificate] `json:"certifications"`
	Projects           flexList[rawProject]     `json:"projects"`
}

type rawContact struct {
	Email    flexString `json:"email"`
	Phone    flexString `json:"phone"`
	Location flexString `json:"location"`
	LinkedIn flexString `json:"linkedin"`
}

func (c *rawContact) UnmarshalJSON(data []byte) error {
	type plain rawContact
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*c = rawContact(p)
	}
	return nil
}

type rawWork struct {
	Title            flexString           `json:"title"`
	Company          flexString           `json:"company"`
	Location         flexString           `json:"location"`
	Duration         flexString           `json:"duration"`
	Responsibilities flexList[flexString] `json:"responsibilities"`
	Achievements     flexList[flexString] `json:"achievements"`
}

type rawEducation struct {
	Degree         flexString `json:"degree"`
	Field          flexString `json:"field"`
	Institution    flexString `json:"institution"`
	Location       flexString `json:"location"`
	GraduationDate flexString `json:"graduation_date"`
	GPA            flexString `json:"gpa"`
}

type rawSkills struct {
	Technical flexList[flexString] `json:"technical"`
	Soft      flexList[flexString] `json:"soft"`
	Languages flexList[flexString] `json:"languages"`
}

// UnmarshalJSON treats a flat skills list as technical skills.
func (s *rawSkills) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &s.Technical)
	}
	type plain rawSkills
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*s = rawSkills(p)
	}
	return nil
}

type rawCertificate struct {
	Name    flexString `json:"name"`
	Issuer  flexString `json:"issuer"`
	Date    flexString `json:"date"`
	Expires flexString `json:"expires"`
}

type rawProject struct {
	Name         flexString           `json:"name"`
	Description  flexString           `json:"description"`
	Technologies flexList[flexString] `json:"technologies"`
	URL          flexString           `json:"url"`
}

// ShapeScreening maps a recovered screening object to the response shape,
// substituting empty lists, empty strings and zero for anything missing.
func ShapeScreening(data json.RawMessage) (*models.ScreeningResult, error) {
	var raw rawScreening
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newPipelineError(KindUnparseableResponse, "screening response has an unexpected shape", err)
	}

	result := &models.ScreeningResult{
		MatchScore:         float64(raw.MatchScore),
		Strengths:          strs(raw.Strengths),
		Weaknesses:         strs(raw.Gaps),
		Recommendations:    strs(raw.Recommendations),
		Summary:            string(raw.Summary),
		InterviewQuestions: strs(raw.InterviewQuestions),
		MatchDetails: models.MatchDetails{
			SkillsMatch:     make([]models.SkillMatch, 0, len(raw.SkillsMatch)),
			ExperienceMatch: shapeRequirements(raw.ExperienceMatch),
			EducationMatch:  shapeRequirements(raw.EducationMatch),
		},
		KeywordAnalysis: models.KeywordAnalysis{
			JobKeywords:     []string{},
			ResumeKeywords:  []string{},
			MissingKeywords: []string{},
		},
	}

	for _, s := range raw.SkillsMatch {
		result.MatchDetails.SkillsMatch = append(result.MatchDetails.SkillsMatch, models.SkillMatch{
			Skill:      string(s.Skill),
			Importance: string(s.Importance),
			Match:      bool(s.Match),
			Confidence: string(s.Confidence),
		})
	}

	if ka := raw.KeywordAnalysis; ka != nil {
		result.KeywordAnalysis = models.KeywordAnalysis{
			JobKeywords:            strs(ka.JobKeywords),
			ResumeKeywords:         strs(ka.ResumeKeywords),
			MissingKeywords:        strs(ka.MissingKeywords),
			KeywordMatchPercentage: float64(ka.KeywordMatchPercentage),
		}
	}

	return result, nil
}

// ShapeResume maps a recovered resume object to StructuredResume with the same
// default rules as ShapeScreening.
func ShapeResume(data json.RawMessage) (*models.StructuredResume, error) {
	var raw rawResume
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newPipelineError(KindUnparseableResponse, "resume response has an unexpected shape", err)
	}

	resume := &models.StructuredResume{
		FullName:       string(raw.FullName),
		Summary:        string(raw.Summary),
		WorkExperience: make([]models.WorkExperience, 0, len(raw.WorkExperience)),
		Education:      make([]models.Education, 0, len(raw.Education)),
		Certifications: make([]models.Certification, 0, len(raw.Certifications)),
		Projects:       make([]models.Project, 0, len(raw.Projects)),
		Skills: models.Skills{
			Technical: []string{},
			Soft:      []string{},
			Languages: []string{},
		},
	}

	if c := raw.ContactInformation; c != nil {
		resume.ContactInformation = models.ContactInformation{
			Email:    string(c.Email),
			Phone:    string(c.Phone),
			Location: string(c.Location),
			LinkedIn: string(c.LinkedIn),
		}
	}

	for _, w := range raw.WorkExperience {
		resume.WorkExperience = append(resume.WorkExperience, models.WorkExperience{
			Title:            string(w.Title),
			Company:          string(w.Company),
			Location:         string(w.Location),
			Duration:         string(w.Duration),
			Responsibilities: strs(w.Responsibilities),
			Achievements:     strs(w.Achievements),
		})
	}

	for _, e := range raw.Education {
		resume.Education = append(resume.Education, models.Education{
			Degree:         string(e.Degree),
			Field:          string(e.Field),
			Institution:    string(e.Institution),
			Location:       string(e.Location),
			GraduationDate: string(e.GraduationDate),
			GPA:            string(e.GPA),
		})
	}

	if s := raw.Skills; s != nil {
		resume.Skills = models.Skills{
			Technical: strs(s.Technical),
			Soft:      strs(s.Soft),
			Languages: strs(s.Languages),
		}
	}

	for _, c := range raw.Certifications {
		resume.Certifications = append(resume.Certifications, models.Certification{
			Name:    string(c.Name),
			Issuer:  string(c.Issuer),
			Date:    string(c.Date),
			Expires: string(c.Expires),
		})
	}

	for _, p := range raw.Projects {
		resume.Projects = append(resume.Projects, models.Project{
			Name:         string(p.Name),
			Description:  string(p.Description),
			Technologies: strs(p.Technologies),
			URL:          string(p.URL),
		})
	}

	return resume, nil
}

func shapeRequirements(in flexList[rawRequirement]) []models.RequirementMatch {
	out := make([]models.RequirementMatch, 0, len(in))
	for _, r := range in {
		out = append(out, models.RequirementMatch{
			Requirement: string(r.Requirement),
			Matched:     bool(r.Matched),
			Comments:    string(r.Comments),
		})
	}
	return out
}

// strs converts to a non-nil string slice, dropping blank entries.
func strs(in flexList[flexString]) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := strings.TrimSpace(string(s)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// flexString accepts strings, numbers and booleans; anything else is "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		*f = flexString(strings.TrimSpace(val))
	case float64:
		*f = flexString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*f = flexString(strconv.FormatBool(val))
	default:
		*f = ""
	}
	return nil
}

// flexNumber accepts numbers and numeric strings such as "85" or "85%".
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch val := v.(type) {
	case float64:
		*f = flexNumber(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if n, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64); err == nil {
			*f = flexNumber(n)
		}
	}
	return nil
}

// flexBool accepts booleans, "true"/"yes" strings and non-zero numbers.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch val := v.(type) {
	case bool:
		*f = flexBool(val)
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		*f = flexBool(lower == "true" || lower == "yes")
	case float64:
		*f = flexBool(val != 0)
	}
	return nil
}

// flexList accepts a JSON array or a single element. Elements that fail to
// decode are skipped.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	var items []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
	} else {
		items = []json.RawMessage{trimmed}
	}

	out := make(flexList[T], 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}
