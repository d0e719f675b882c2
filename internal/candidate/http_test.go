package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/candidate-screening/internal/auth"
	"github.com/gokatarajesh/candidate-screening/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/candidate-screening/pkg/http/errors"
)

type stubWorkflow struct {
	identity uuid.UUID
	profile  SaveProfileRequest
	exam     GenerateExamRequest
	err      error
}

func (s *stubWorkflow) SaveProfile(_ context.Context, identity uuid.UUID, req SaveProfileRequest) (string, error) {
	s.identity, s.profile = identity, req
	if s.err != nil {
		return "", s.err
	}
	return MsgProfileSaved, nil
}

func (s *stubWorkflow) GenerateExam(_ context.Context, identity uuid.UUID, req GenerateExamRequest) (string, error) {
	s.identity, s.exam = identity, req
	if s.err != nil {
		return "", s.err
	}
	return MsgExamGenerated, nil
}

func postWithIdentity(path, body string, id uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if id != uuid.Nil {
		req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: id}))
	}
	return req
}

func TestHTTP_SaveProfile(t *testing.T) {
	svc := &stubWorkflow{}
	h := NewHTTPHandlers(svc, zerolog.Nop())
	id := uuid.New()

	rec := httptest.NewRecorder()
	h.SaveProfile(rec, postWithIdentity("/v1/profile",
		`{"email":"a@x.com","examCode":"Z9","firstName":"A","lastName":"B"}`, id))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, MsgProfileSaved, body["result"])
	assert.Equal(t, id, svc.identity)
	assert.Equal(t, SaveProfileRequest{Email: "a@x.com", ExamCode: "Z9", FirstName: "A", LastName: "B"}, svc.profile)
}

func TestHTTP_GenerateExam(t *testing.T) {
	svc := &stubWorkflow{}
	h := NewHTTPHandlers(svc, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GenerateExam(rec, postWithIdentity("/v1/exams",
		`{"email":"a@x.com","examCode":"Z9","language":"go"}`, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"Exam successfully generated"}`, rec.Body.String())
	assert.Equal(t, "go", svc.exam.Language)
}

func TestHTTP_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   httperrors.ErrorResponse
	}{
		{
			name:       "unauthenticated",
			err:        unauthenticated(),
			wantStatus: http.StatusUnauthorized,
			wantBody:   httperrors.ErrorResponse{Error: "unauthenticated", Message: msgUnauthenticated},
		},
		{
			name:       "code mismatch",
			err:        codeMismatch(),
			wantStatus: http.StatusBadRequest,
			wantBody:   httperrors.ErrorResponse{Error: "invalid_argument", Message: msgCodeMismatch, Field: "examCode"},
		},
		{
			name:       "internal hides cause",
			err:        internal("write exam", errors.New("pq: relation missing")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   httperrors.ErrorResponse{Error: "internal", Message: msgInternal},
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   httperrors.ErrorResponse{Error: "internal", Message: msgInternal},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHTTPHandlers(&stubWorkflow{err: tc.err}, zerolog.Nop())
			rec := httptest.NewRecorder()
			h.GenerateExam(rec, postWithIdentity("/v1/exams", `{}`, uuid.New()))

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body httperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantBody, body)
		})
	}
}

func TestHTTP_BadRequests(t *testing.T) {
	h := NewHTTPHandlers(&stubWorkflow{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.SaveProfile(rec, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.SaveProfile(rec, postWithIdentity("/v1/profile", `{not json`, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
