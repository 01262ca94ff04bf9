package services

import (
	"encoding/json"
	"testing"
)

func TestShapeScreeningDefaults(t *testing.T) {
	t.Parallel()

	result, err := ShapeScreening(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MatchScore != 0 || result.Summary != "" {
		t.Fatalf("expected zero score and empty summary, got %+v", result)
	}

	lists := map[string]int{
		"skillsMatch":        len(result.MatchDetails.SkillsMatch),
		"experienceMatch":    len(result.MatchDetails.ExperienceMatch),
		"educationMatch":     len(result.MatchDetails.EducationMatch),
		"strengths":          len(result.Strengths),
		"weaknesses":         len(result.Weaknesses),
		"recommendations":    len(result.Recommendations),
		"interviewQuestions": len(result.InterviewQuestions),
		"jobKeywords":        len(result.KeywordAnalysis.JobKeywords),
	}
	for name, n := range lists {
		if n != 0 {
			t.Fatalf("expected %s to be empty, got %d entries", name, n)
		}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"strengths", "weaknesses", "recommendations"} {
		if _, ok := generic[key].([]any); !ok {
			t.Fatalf("expected %s to encode as [], got %v", key, generic[key])
		}
	}
}

func TestShapeScreeningCopiesFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"match_score": 72,
		"skills_match": [{"skill": "Go", "importance": "high", "match": true, "confidence": "high"}],
		"experience_match": [{"requirement": "5+ years", "matched": "yes", "comments": "6 years"}],
		"education_match": {"requirement": "BSc", "matched": false, "comments": "none"},
		"keyword_analysis": {"job_keywords": ["go"], "missing_keywords": "kubernetes", "keyword_match_percentage": "60%"},
		"strengths": ["Strong Go", "  "],
		"gaps": ["No Kubernetes"],
		"recommendations": "Learn Kubernetes",
		"interview_questions": ["Describe a Go service you scaled"],
		"summary": "Good fit"
	}`

	result, err := ShapeScreening(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MatchScore != 72 {
		t.Fatalf("expected score 72, got %v", result.MatchScore)
	}
	if got := result.MatchDetails.SkillsMatch; len(got) != 1 || got[0].Skill != "Go" || !got[0].Match {
		t.Fatalf("unexpected skills match %+v", got)
	}
	if got := result.MatchDetails.ExperienceMatch; len(got) != 1 || !got[0].Matched {
		t.Fatalf("expected string \"yes\" to coerce to true, got %+v", got)
	}
	if got := result.MatchDetails.EducationMatch; len(got) != 1 || got[0].Requirement != "BSc" {
		t.Fatalf("expected single object to become a list, got %+v", got)
	}
	if got := result.Strengths; len(got) != 1 || got[0] != "Strong Go" {
		t.Fatalf("expected blank strengths dropped, got %v", got)
	}
	if got := result.Weaknesses; len(got) != 1 || got[0] != "No Kubernetes" {
		t.Fatalf("expected gaps mapped to weaknesses, got %v", got)
	}
	if got := result.Recommendations; len(got) != 1 || got[0] != "Learn Kubernetes" {
		t.Fatalf("expected lone string to become a list, got %v", got)
	}
	if result.KeywordAnalysis.KeywordMatchPercentage != 60 {
		t.Fatalf("expected percentage string to coerce, got %v", result.KeywordAnalysis.KeywordMatchPercentage)
	}
	if got := result.KeywordAnalysis.ResumeKeywords; got == nil || len(got) != 0 {
		t.Fatalf("expected empty resume keywords, got %v", got)
	}
	if result.Summary != "Good fit" {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
}

func TestShapeScreeningAcceptsOutOfRangeValues(t *testing.T) {
	t.Parallel()

	result, err := ShapeScreening(json.RawMessage(`{"match_score": 140, "summary": 3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchScore != 140 {
		t.Fatalf("expected model judgement kept as-is, got %v", result.MatchScore)
	}
	if result.Summary != "3" {
		t.Fatalf("expected numeric summary coerced to text, got %q", result.Summary)
	}
}

func TestShapeScreeningToleratesWrongTypes(t *testing.T) {
	t.Parallel()

	raw := `{"match_score": {"value": 3}, "skills_match": ["Go"], "keyword_analysis": "n/a", "strengths": null}`
	result, err := ShapeScreening(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchScore != 0 || len(result.MatchDetails.SkillsMatch) != 0 || result.Strengths == nil {
		t.Fatalf("expected defaults for unusable fields, got %+v", result)
	}
}

func TestShapeResume(t *testing.T) {
	t.Parallel()

	raw := `{
		"full_name": "Jane Roe",
		"contact_information": {"email": "jane@example.com", "phone": null},
		"work_experience": [{"title": "Engineer", "company": "Acme", "responsibilities": ["APIs"]}],
		"skills": ["Go", "SQL"],
		"projects": null
	}`

	resume, err := ShapeResume(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resume.FullName != "Jane Roe" || resume.ContactInformation.Email != "jane@example.com" {
		t.Fatalf("unexpected resume %+v", resume)
	}
	if resume.ContactInformation.Phone != "" {
		t.Fatalf("expected null phone to become empty string")
	}
	if len(resume.WorkExperience) != 1 || resume.WorkExperience[0].Achievements == nil {
		t.Fatalf("expected achievements defaulted to empty list, got %+v", resume.WorkExperience)
	}
	if got := resume.Skills.Technical; len(got) != 2 || got[0] != "Go" {
		t.Fatalf("expected flat skills list treated as technical, got %v", got)
	}
	if resume.Skills.Soft == nil || resume.Projects == nil || resume.Education == nil || resume.Certifications == nil {
		t.Fatalf("expected non-nil defaults, got %+v", resume)
	}
}

func TestShapeResumeEmptyObject(t *testing.T) {
	t.Parallel()

	resume, err := ShapeResume(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resume.WorkExperience == nil || resume.Skills.Technical == nil || resume.Skills.Languages == nil {
		t.Fatalf("expected empty lists, got %+v", resume)
	}
}
