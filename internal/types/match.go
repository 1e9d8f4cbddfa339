// Package types provides type definitions for structured data used throughout the job-matcher system.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MatchRequest represents the candidate profile posted to the matching API.
// All fields are optional; an absent field is treated as empty text and
// contributes a zero vector to scoring.
type MatchRequest struct {
	Position       string `json:"position,omitempty" validate:"omitempty,max=2000"`
	Skills         string `json:"skills,omitempty" validate:"omitempty,max=20000"`
	Summary        string `json:"summary,omitempty" validate:"omitempty,max=20000"`
	Qualification  string `json:"qualification,omitempty" validate:"omitempty,max=20000"`
	Experience     string `json:"experience,omitempty" validate:"omitempty,max=20000"`
	WorkExperience string `json:"work_experience,omitempty" validate:"omitempty,max=20000"`
}

// LocationMatchRequest is a MatchRequest plus an optional candidate location
// used for proximity re-ranking.
type LocationMatchRequest struct {
	MatchRequest
	Location string `json:"location,omitempty" validate:"omitempty,max=500"`
}

// CandidateProfile is the reduced form of a match request: the four scored
// text fields plus the raw location string. SkillsSummary and Experience are
// concatenations of their source fields.
type CandidateProfile struct {
	Position      string
	SkillsSummary string
	Qualification string
	Experience    string
	Location      string
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LocationMatchRequest using the validator.
func (r *LocationMatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Profile reduces the request to the four scored fields. Skills and Summary
// collapse into SkillsSummary; Experience and WorkExperience collapse into
// Experience. A field whose sources are all blank reduces to the empty string.
func (r *MatchRequest) Profile() CandidateProfile {
	return CandidateProfile{
		Position:      strings.TrimSpace(r.Position),
		SkillsSummary: joinNonBlank(r.Skills, r.Summary),
		Qualification: strings.TrimSpace(r.Qualification),
		Experience:    joinNonBlank(r.Experience, r.WorkExperience),
	}
}

// Profile reduces the request to scored fields and carries the location along.
func (r *LocationMatchRequest) Profile() CandidateProfile {
	p := r.MatchRequest.Profile()
	p.Location = strings.TrimSpace(r.Location)
	return p
}

// joinNonBlank joins the trimmed non-empty parts with a single space.
func joinNonBlank(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}
