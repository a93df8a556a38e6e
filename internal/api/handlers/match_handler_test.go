package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentmatch/internal/matching"
	"github.com/yoockh/talentmatch/internal/services"
	"github.com/yoockh/talentmatch/internal/utils"
)

type stubMatchService struct {
	candidates []services.CandidateMatch
	positions  []services.PositionMatch
	err        error
	gotID      int64
}

func (s *stubMatchService) MatchPosition(_ context.Context, id int64) ([]services.CandidateMatch, error) {
	s.gotID = id
	return s.candidates, s.err
}

func (s *stubMatchService) MatchResume(_ context.Context, id int64) ([]services.PositionMatch, error) {
	s.gotID = id
	return s.positions, s.err
}

func setupMatchRouter(svc services.MatchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMatchHandler(svc)
	r.GET("/positions/:id/match", h.MatchPosition)
	r.GET("/resumes/:id/match", h.MatchResume)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMatchPositionHandler(t *testing.T) {
	svc := &stubMatchService{candidates: []services.CandidateMatch{
		{Hit: matching.Hit{ID: 3, MatchedKeywords: []string{"go", "sql"}, HitCount: 2, Score: 20}, Name: "Ann", Skills: []string{"Go"}, WorkExperience: []string{"x"}},
		{Hit: matching.Hit{ID: 2, MatchedKeywords: []string{"go"}, HitCount: 1, Score: 10}},
		{Hit: matching.Hit{ID: 1, MatchedKeywords: []string{"sql"}, HitCount: 1, Score: 10}},
	}}
	r := setupMatchRouter(svc)

	w := get(r, "/positions/42/match")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), svc.gotID)

	var body struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 3)

	first := body.Items[0]
	assert.EqualValues(t, 3, first["id"])
	assert.Equal(t, "Ann", first["name"])
	assert.EqualValues(t, 20, first["score"])
	assert.EqualValues(t, 2, first["hit_count"])
	assert.Equal(t, []any{"go", "sql"}, first["matched_keywords"])
	for _, k := range []string{"education_degree", "education_tiers", "education_school", "skills", "tag_names", "work_years", "created_at", "work_experience", "uploaded_by"} {
		assert.Contains(t, first, k)
	}
}

func TestMatchPaginatesAfterRanking(t *testing.T) {
	svc := &stubMatchService{positions: []services.PositionMatch{
		{Hit: matching.Hit{ID: 9, Score: 30}},
		{Hit: matching.Hit{ID: 8, Score: 20}},
		{Hit: matching.Hit{ID: 7, Score: 10}},
	}}
	r := setupMatchRouter(svc)

	w := get(r, "/resumes/5/match?limit=1&offset=1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []services.PositionMatch `json:"items"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, int64(8), body.Items[0].ID)
}

func TestMatchEmptyResultIsArray(t *testing.T) {
	r := setupMatchRouter(&stubMatchService{positions: []services.PositionMatch{}})

	w := get(r, "/resumes/5/match")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestMatchRejectsNonNumericID(t *testing.T) {
	svc := &stubMatchService{}
	r := setupMatchRouter(svc)

	w := get(r, "/positions/abc/match")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.gotID)

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeInvalidArgument, body.Code)
	assert.Contains(t, body.Detail, "abc")
}

func TestMatchErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{utils.E(utils.CodeNotFound, "op", "position not found", utils.ErrNotFound), http.StatusNotFound},
		{utils.StoreUnavailable("op", "failed to load resumes", errors.New("dial tcp: timeout")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		r := setupMatchRouter(&stubMatchService{err: tc.err})
		w := get(r, "/positions/1/match")
		assert.Equal(t, tc.status, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["detail"])
	}
}

func TestStoreUnavailableDetailCarriesStoreMessage(t *testing.T) {
	err := utils.StoreUnavailable("op", "failed to load resumes", errors.New("dial tcp: timeout"))
	r := setupMatchRouter(&stubMatchService{err: err})

	w := get(r, "/positions/1/match")
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to load resumes: dial tcp: timeout", body.Detail)
}
