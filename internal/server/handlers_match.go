package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/location"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// scoredMatchDTO is the wire shape of one scored match.
type scoredMatchDTO struct {
	MatchScore float64            `json:"match_score"`
	Breakdown  matching.Breakdown `json:"breakdown"`
	JobDetails map[string]string  `json:"job_details"`
}

// locatedMatchDTO adds distance annotations. DistanceKm is null when the job
// location could not be resolved.
type locatedMatchDTO struct {
	scoredMatchDTO
	DistanceKm     *float64         `json:"distance_km"`
	JobCoordinates *geo.Coordinates `json:"job_coordinates"`
	LocationRank   int              `json:"location_rank,omitempty"`
}

// handleMatchJobs scores the posted candidate profile against the corpus and
// returns the top weighted matches.
func (s *Server) handleMatchJobs(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := decodeRequest(r.Body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	fv := s.vectorizer.FieldVectors(r.Context(), req.Profile())
	matches, err := s.engine.Match(fv)
	if err != nil {
		s.log.Error("matching failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":       true,
		"matches":       toScoredDTOs(matches),
		"total_matches": len(matches),
	})
}

// handleMatchJobsWithLocation scores the profile, then re-ranks the top
// matches by proximity to the candidate's location when one resolves.
func (s *Server) handleMatchJobsWithLocation(w http.ResponseWriter, r *http.Request) {
	var req types.LocationMatchRequest
	if err := decodeRequest(r.Body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	profile := req.Profile()
	fv := s.vectorizer.FieldVectors(r.Context(), profile)
	matches, err := s.engine.Match(fv)
	if err != nil {
		s.log.Error("matching failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result := s.ranker.Rank(r.Context(), matches, profile.Location)

	resp := map[string]any{
		"success":         true,
		"total_matches":   result.Total,
		"location_sorted": result.LocationSorted,
	}
	if result.LocationSorted {
		resp["matches"] = toLocatedDTOs(result.Matches)
		resp["resume_coordinates"] = result.Origin
	} else {
		// Fallback: score order preserved, no distance annotations. The
		// warning distinguishes "no location given" from "geocoding failed".
		located := make([]scoredMatchDTO, 0, len(result.Matches))
		for _, m := range result.Matches {
			located = append(located, toScoredDTO(m.Match))
		}
		resp["matches"] = located
		if result.Warning != "" {
			resp["warning"] = result.Warning
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// decodeRequest parses a JSON request body into dst, mapping failures to
// client errors.
func decodeRequest(body io.Reader, dst any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return &ErrInvalidRequest{Message: "failed to read request body"}
	}
	if len(data) == 0 {
		return &ErrInvalidRequest{Message: "no resume data provided"}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &ErrInvalidRequest{Message: "malformed JSON body"}
	}
	return nil
}

func toScoredDTO(m matching.Match) scoredMatchDTO {
	return scoredMatchDTO{
		MatchScore: m.FinalScore,
		Breakdown:  m.Breakdown,
		JobDetails: m.Job.Metadata,
	}
}

func toScoredDTOs(matches []matching.Match) []scoredMatchDTO {
	out := make([]scoredMatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, toScoredDTO(m))
	}
	return out
}

func toLocatedDTOs(matches []location.Match) []locatedMatchDTO {
	out := make([]locatedMatchDTO, 0, len(matches))
	for _, m := range matches {
		dto := locatedMatchDTO{
			scoredMatchDTO: toScoredDTO(m.Match),
			JobCoordinates: m.Coordinates,
			LocationRank:   m.LocationRank,
		}
		if !math.IsInf(m.DistanceKm, 1) {
			rounded := geo.RoundKm(m.DistanceKm)
			dto.DistanceKm = &rounded
		}
		out = append(out, dto)
	}
	return out
}
