package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"careline/internal/complaint/handler/mocks"
	"careline/internal/complaint/models"
	"careline/internal/complaint/service"
	"careline/internal/filestore"
	dErrors "careline/pkg/domainerrors"
)

//go:generate mockgen -source=handler.go -destination=mocks/complaint-mocks.go -package=mocks Service

type ComplaintHandlerSuite struct {
	suite.Suite
}

func TestComplaintHandlerSuite(t *testing.T) {
	suite.Run(t, new(ComplaintHandlerSuite))
}

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService, *mocks.MockStager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockStager := mocks.NewMockStager(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, mockStager, logger).Register(r)
	return r, mockService, mockStager
}

func (s *ComplaintHandlerSuite) TestSubmit() {
	router, mockService, mockStager := newTestHandler(s.T())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"patientName":      "Sara Ahmed",
		"nationalId":       "1234567890",
		"gender":           "F",
		"contactNumber":    "0501234567",
		"departmentID":     "3",
		"complaintTypeID":  "2",
		"visitDate":        "2026-08-20",
		"complaintDetails": "waited four hours",
	}
	for k, v := range fields {
		require.NoError(s.T(), mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("attachments", "xray.png")
	require.NoError(s.T(), err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), mw.Close())

	mockStager.EXPECT().Save(gomock.Any()).Return(&filestore.StoredFile{
		Name: "xray.png", Path: "ab12.png", Size: 9, MIMEType: "image/png",
	}, nil)
	mockService.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, in service.SubmitInput) (*models.Complaint, error) {
			assert.Equal(s.T(), "1234567890", in.NationalID)
			assert.Equal(s.T(), int64(3), in.DepartmentID)
			assert.Equal(s.T(), int64(2), in.ComplaintTypeID)
			assert.Nil(s.T(), in.SubTypeID)
			assert.Equal(s.T(), time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), in.VisitDate)
			require.Len(s.T(), in.Files, 1)
			assert.Equal(s.T(), "xray.png", in.Files[0].Name)
			return &models.Complaint{ID: 42, CurrentStatus: models.StatusNew, Priority: models.PriorityMedium}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), float64(42), resp["complaint_id"])
	assert.Equal(s.T(), "New", resp["status"])
	assert.Equal(s.T(), "Medium", resp["priority"])
}

func (s *ComplaintHandlerSuite) TestSubmitBadVisitDate() {
	router, _, _ := newTestHandler(s.T())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(s.T(), mw.WriteField("visitDate", "20/08/2026"))
	require.NoError(s.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Contains(s.T(), w.Body.String(), "visit date")
}

func (s *ComplaintHandlerSuite) TestSubmitRejectedUpload() {
	router, _, mockStager := newTestHandler(s.T())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("attachments", "malware.exe")
	require.NoError(s.T(), err)
	_, err = part.Write([]byte("nope"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), mw.Close())

	mockStager.EXPECT().Save(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeBadRequest, "only images and PDF files are allowed"))

	req := httptest.NewRequest(http.MethodPost, "/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ComplaintHandlerSuite) TestListPassesFilters() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().
		ListForCaller(gomock.Any(), models.Filter{Days: 30, Search: "Sara", Status: "New", Department: "Emergency"}).
		Return([]models.ListItem{{ID: 1, PatientName: "Sara Ahmed", CurrentStatus: models.StatusNew}}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/complaints?dateFilter=30&search=Sara&status=New&department=Emergency", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), float64(1), resp["count"])
}

func (s *ComplaintHandlerSuite) TestListIgnoresNonNumericDateFilter() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().ListForCaller(gomock.Any(), models.Filter{}).Return([]models.ListItem{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/complaints?dateFilter=all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"data":[]`)
}

func (s *ComplaintHandlerSuite) TestMineUsesPersonalListing() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().ListOwn(gomock.Any(), models.Filter{}).
		Return([]models.ListItem{{ID: 7}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/complaints/mine", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ComplaintHandlerSuite) TestDetailNotFound() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().Detail(gomock.Any(), int64(99)).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "complaint not found"))

	req := httptest.NewRequest(http.MethodGet, "/complaints/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ComplaintHandlerSuite) TestDetailInvalidID() {
	router, _, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodGet, "/complaints/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ComplaintHandlerSuite) TestUpdateStatus() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().Transition(gomock.Any(), service.TransitionInput{
		ComplaintID: 42,
		NewStatus:   "UnderReview",
		Remarks:     "triaged",
	}).Return(nil)

	body := strings.NewReader(`{"new_status":"UnderReview","remarks":"triaged"}`)
	req := httptest.NewRequest(http.MethodPut, "/complaints/42/status", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ComplaintHandlerSuite) TestUpdateStatusIllegalMove() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().Transition(gomock.Any(), gomock.Any()).
		Return(dErrors.New(dErrors.CodeConflict, "cannot move from New to Resolved"))

	body := strings.NewReader(`{"new_status":"Resolved"}`)
	req := httptest.NewRequest(http.MethodPut, "/complaints/42/status", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *ComplaintHandlerSuite) TestPatientComplaints() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().PatientComplaints(gomock.Any(), "1234567890").
		Return([]models.PatientComplaint{{ListItem: models.ListItem{ID: 1}}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/patients/1234567890/complaints", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ComplaintHandlerSuite) TestVerifyPatient() {
	router, mockService, _ := newTestHandler(s.T())

	mockService.EXPECT().VerifyPatient(gomock.Any(), "1234567890").
		Return(&service.Verification{Exists: true, PatientName: "Sara Ahmed", ComplaintCount: 2}, nil)

	req := httptest.NewRequest(http.MethodGet, "/patients/1234567890/verify", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["exists"])
	assert.Equal(s.T(), float64(2), resp["complaint_count"])
}
