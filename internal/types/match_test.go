package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRequest_Validate(t *testing.T) {
	req := MatchRequest{Position: "Software Engineer", Skills: "Go, SQL"}
	assert.NoError(t, req.Validate())

	empty := MatchRequest{}
	assert.NoError(t, empty.Validate())

	oversized := MatchRequest{Position: strings.Repeat("x", 2001)}
	assert.Error(t, oversized.Validate())
}

func TestLocationMatchRequest_Validate(t *testing.T) {
	req := LocationMatchRequest{
		MatchRequest: MatchRequest{Position: "Engineer"},
		Location:     "Berlin, Germany",
	}
	assert.NoError(t, req.Validate())

	oversized := LocationMatchRequest{Location: strings.Repeat("x", 501)}
	assert.Error(t, oversized.Validate())
}

func TestProfile_CollapsesFields(t *testing.T) {
	req := MatchRequest{
		Position:       "  Backend Engineer  ",
		Skills:         "Go, Postgres",
		Summary:        "Ten years building services",
		Qualification:  "BSc Computer Science",
		Experience:     "Acme Corp",
		WorkExperience: "Globex Inc",
	}

	p := req.Profile()
	assert.Equal(t, "Backend Engineer", p.Position)
	assert.Equal(t, "Go, Postgres Ten years building services", p.SkillsSummary)
	assert.Equal(t, "BSc Computer Science", p.Qualification)
	assert.Equal(t, "Acme Corp Globex Inc", p.Experience)
	assert.Empty(t, p.Location)
}

func TestProfile_BlankSourcesReduceToEmpty(t *testing.T) {
	req := MatchRequest{
		Skills:         "   ",
		Summary:        "",
		Experience:     "\t",
		WorkExperience: "Globex Inc",
	}

	p := req.Profile()
	assert.Empty(t, p.Position)
	assert.Empty(t, p.SkillsSummary)
	assert.Equal(t, "Globex Inc", p.Experience)
}

func TestLocationProfile_CarriesLocation(t *testing.T) {
	req := LocationMatchRequest{
		MatchRequest: MatchRequest{Position: "Engineer"},
		Location:     "  Munich  ",
	}

	p := req.Profile()
	require.Equal(t, "Engineer", p.Position)
	assert.Equal(t, "Munich", p.Location)
}
