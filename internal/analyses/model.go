package analyses

import "time"

// PersonalDetails holds contact fields found in the résumé. A nil field means
// the analyzer did not find it, which is distinct from an empty string.
type PersonalDetails struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	LinkedIn  *string `json:"linkedIn,omitempty"`
	Portfolio *string `json:"portfolio,omitempty"`
}

type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Duration    string  `json:"duration"`
	Details     *string `json:"details,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// ResumeContent is the segmented body of the résumé. List order is the
// order the analyzer returned.
type ResumeContent struct {
	Summary        *string          `json:"summary,omitempty"`
	WorkExperience []WorkExperience `json:"workExperience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	Projects       []Project        `json:"projects,omitempty"`
	Certifications []Certification  `json:"certifications,omitempty"`
}

// Skills lists are never nil once a result has been decoded.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

type AIFeedback struct {
	Rating           float64  `json:"rating"`
	ImprovementAreas []string `json:"improvementAreas"`
	SuggestedSkills  []string `json:"suggestedSkills"`
	Summary          string   `json:"summary"`
}

// Result is the structured output of an Analyzer.
type Result struct {
	PersonalDetails *PersonalDetails `json:"personalDetails,omitempty"`
	ResumeContent   *ResumeContent   `json:"resumeContent,omitempty"`
	Skills          Skills           `json:"skills"`
	AIFeedback      AIFeedback       `json:"aiFeedback"`
}

// Record is a persisted analysis. Records are never modified after Create.
type Record struct {
	ID              string           `json:"id"`
	FileName        string           `json:"fileName"`
	PersonalDetails *PersonalDetails `json:"personalDetails"`
	ResumeContent   *ResumeContent   `json:"resumeContent"`
	Skills          Skills           `json:"skills"`
	AIFeedback      AIFeedback       `json:"aiFeedback"`
	OverallScore    float64          `json:"overallScore"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// NewRecord builds an unsaved record from an analyzer result. ID and
// CreatedAt are left for the Repo to assign.
func NewRecord(fileName string, res Result) Record {
	res = res.normalized()
	return Record{
		FileName:        fileName,
		PersonalDetails: res.PersonalDetails,
		ResumeContent:   res.ResumeContent,
		Skills:          res.Skills,
		AIFeedback:      res.AIFeedback,
		OverallScore:    res.AIFeedback.Rating,
	}
}

// Name returns the candidate name or "" when unknown.
func (r Record) Name() string {
	if r.PersonalDetails == nil || r.PersonalDetails.Name == nil {
		return ""
	}
	return *r.PersonalDetails.Name
}

// Email returns the candidate email or "" when unknown.
func (r Record) Email() string {
	if r.PersonalDetails == nil || r.PersonalDetails.Email == nil {
		return ""
	}
	return *r.PersonalDetails.Email
}

func (r Result) normalized() Result {
	r.Skills.Technical = nonNil(r.Skills.Technical)
	r.Skills.Soft = nonNil(r.Skills.Soft)
	r.AIFeedback.ImprovementAreas = nonNil(r.AIFeedback.ImprovementAreas)
	r.AIFeedback.SuggestedSkills = nonNil(r.AIFeedback.SuggestedSkills)
	return r
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
