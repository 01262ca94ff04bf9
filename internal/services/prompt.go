package services

import (
	"fmt"
)

// GenerationParams are the sampling settings sent with a prompt.
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

var (
	// ParseParams keeps resume parsing close to deterministic.
	ParseParams = GenerationParams{Temperature: 0.1, TopP: 0.95, TopK: 40, MaxOutputTokens: 8000}
	// ScreenParams allows slightly more variation in the written assessment.
	ScreenParams = GenerationParams{Temperature: 0.2, TopP: 0.95, TopK: 40, MaxOutputTokens: 8000}
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeParsePrompt creates the prompt that turns raw resume text into
// the structured resume JSON.
func (pb *PromptBuilder) BuildResumeParsePrompt(resumeText string) string {
	return fmt.Sprintf(`Parse the following resume text into a well-structured JSON format.

GUIDELINES:
- Extract ALL information accurately
- For missing information, use null or empty arrays
- Normalize job titles to industry-standard terms where appropriate
- Identify both explicit and implicit skills

OUTPUT FORMAT (JSON only):
{
  "full_name": "John Doe",
  "contact_information": {
    "email": "email@example.com",
    "phone": "123-456-7890",
    "location": "City, State",
    "linkedin": "linkedin profile if available"
  },
  "summary": "Professional summary text",
  "work_experience": [
    {
      "title": "Job Title",
      "company": "Company Name",
      "location": "City, State",
      "duration": "Start Date - End Date",
      "responsibilities": ["Responsibility 1", "Responsibility 2"],
      "achievements": ["Achievement 1", "Achievement 2"]
    }
  ],
  "education": [
    {
      "degree": "Degree Name",
      "field": "Field of Study",
      "institution": "Institution Name",
      "location": "City, State",
      "graduation_date": "Year",
      "gpa": "GPA if mentioned"
    }
  ],
  "skills": {
    "technical": ["Skill 1", "Skill 2"],
    "soft": ["Skill 1", "Skill 2"],
    "languages": ["Language 1", "Language 2"]
  },
  "certifications": [
    {
      "name": "Certification Name",
      "issuer": "Issuing Organization",
      "date": "Issue Date or Year",
      "expires": "Expiration Date if applicable"
    }
  ],
  "projects": [
    {
      "name": "Project Name",
      "description": "Brief description",
      "technologies": ["Tech 1", "Tech 2"],
      "url": "Project URL if available"
    }
  ]
}

RESUME TEXT:
%s

Respond with ONLY the JSON object, no other text or formatting.`, resumeText)
}

// BuildResumeScreeningPrompt creates the prompt comparing a resume with a job
// description.
func (pb *PromptBuilder) BuildResumeScreeningPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) AI designed to evaluate resumes against job descriptions.

Task: Analyze the provided resume against the job description and create a comprehensive assessment.

ASSESSMENT CRITERIA:
1. Skills match (required vs nice-to-have vs missing)
2. Experience relevance and years
3. Education requirements
4. Industry knowledge
5. Cultural/soft skills fit
6. Keyword optimization

OUTPUT FORMAT (JSON only):
{
  "match_score": 85,
  "skills_match": [
    {
      "skill": "JavaScript",
      "importance": "high/medium/low",
      "match": true,
      "confidence": "high/medium/low"
    }
  ],
  "experience_match": [
    {
      "requirement": "5+ years in web development",
      "matched": true,
      "comments": "Detailed comparison with resume"
    }
  ],
  "education_match": [
    {
      "requirement": "Bachelor's degree requirement",
      "matched": true,
      "comments": "Details from resume"
    }
  ],
  "keyword_analysis": {
    "job_keywords": ["keyword1", "keyword2"],
    "resume_keywords": ["keyword1", "keyword3"],
    "missing_keywords": ["keyword2"],
    "keyword_match_percentage": 85
  },
  "strengths": [
    "Detailed strength point 1",
    "Detailed strength point 2"
  ],
  "gaps": [
    "Detailed gap 1",
    "Detailed gap 2"
  ],
  "recommendations": [
    "Specific recommendation 1",
    "Specific recommendation 2"
  ],
  "interview_questions": [
    "Suggested question to probe gap areas",
    "Technical validation question"
  ],
  "summary": "Detailed 2-3 sentence assessment summary"
}

"match_score" is the overall percentage match from 0 to 100.

RESUME TEXT:
%s

JOB DESCRIPTION:
%s

Respond with ONLY the JSON object. No introduction, no explanation, no markdown.`, resumeText, jobDescription)
}
