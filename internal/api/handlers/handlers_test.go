package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/services"
	"github.com/yoockh/talentmatch/internal/utils"
)

type stubAuth struct {
	loggedOut string
}

func (s *stubAuth) Login(_ context.Context, username, password, _, _ string) (*services.LoginResult, error) {
	if username != "admin" || password != "pw" {
		return nil, utils.E(utils.CodeUnauthorized, "test", "invalid username or password", nil)
	}
	return &services.LoginResult{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.Identity{UserID: 1, Username: "admin", Role: models.RoleAdmin, SessionID: "s1"},
	}, nil
}

func (s *stubAuth) Authenticate(context.Context, string) (*models.Identity, error) {
	return nil, nil
}

func (s *stubAuth) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = sessionID
	return nil
}

func withIdentity(id *models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", id)
		c.Next()
	}
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSetsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(&stubAuth{}, true)
	r.POST("/auth/login", h.Login)

	w := postJSON(r, "/auth/login", `{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, map[string]any{"id": float64(1), "username": "admin", "role": "admin"}, body["user"])

	w = postJSON(r, "/auth/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"UNAUTHORIZED","detail":"invalid username or password"}`, w.Body.String())

	w = postJSON(r, "/auth/login", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutAndMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &stubAuth{}
	h := NewAuthHandler(auth, false)
	r := gin.New()
	r.Use(withIdentity(&models.Identity{UserID: 3, Username: "hr", Role: models.RoleStaff, SessionID: "s3"}))
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)

	w := postJSON(r, "/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s3", auth.loggedOut)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":3,"username":"hr","role":"staff"}`, w.Body.String())
}

type stubResumes struct {
	services.ResumeService
	q string
}

func (s *stubResumes) Search(_ context.Context, q string, _, _ int) ([]services.ResumeItem, int, error) {
	s.q = q
	return []services.ResumeItem{{ID: 4, WorkExperience: []string{"x"}}}, 7, nil
}

func (s *stubResumes) List(context.Context, int, int) ([]services.ResumeItem, error) {
	return []services.ResumeItem{{ID: 1}, {ID: 2}}, nil
}

func TestResumeListAndSearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubResumes{}
	r := gin.New()
	r.GET("/resumes", NewResumeHandler(svc).List)

	req, _ := http.NewRequest(http.MethodGet, "/resumes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var list []services.ResumeItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	req, _ = http.NewRequest(http.MethodGet, "/resumes?q=golang", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", svc.q)

	var page struct {
		Items []services.ResumeItem `json:"items"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, int64(4), page.Items[0].ID)
}

type stubUploads struct {
	services.UploadService
	uploadedBy string
	names      []string
}

func (s *stubUploads) Upload(_ context.Context, uploadedBy, fileName, _ string, r io.Reader) (*models.ResumeFile, error) {
	s.uploadedBy = uploadedBy
	s.names = append(s.names, fileName)
	if fileName == "bad.pdf" {
		return nil, utils.StoreUnavailable("test", "failed to upload file", io.ErrUnexpectedEOF)
	}
	_, _ = io.Copy(io.Discard, r)
	return &models.ResumeFile{ID: int64(len(s.names)), FileName: fileName}, nil
}

func TestUploadReportsPerFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubUploads{}
	r := gin.New()
	r.Use(withIdentity(&models.Identity{UserID: 3, Username: "hr"}))
	r.POST("/uploads", NewUploadHandler(svc, 1<<20).Upload)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.pdf", "bad.pdf"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("%PDF-1.4"))
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []uploadResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].OK)
	assert.False(t, body.Results[1].OK)
	assert.Contains(t, body.Results[1].Error, "failed to upload file")
	assert.Equal(t, "hr", svc.uploadedBy)
}

func TestUploadWithoutFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/uploads", NewUploadHandler(&stubUploads{}, 0).Upload)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("uploaded_by", "hr")
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
