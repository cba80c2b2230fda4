package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"padron/internal/domain"
	"padron/internal/handler"
	"padron/internal/padron"
	"padron/internal/service"
	"padron/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newImportHandler() (*handler.ImportHandler, *mocks.MockImportService) {
	svc := new(mocks.MockImportService)
	return handler.NewImportHandler(svc, 2), svc
}

func sampleSession() *padron.Session {
	rows := []padron.Row{
		{"DNI": padron.Number(30111222), "Nombre": padron.Text("Juan")},
		{"DNI": padron.Number(28999888), "Nombre": padron.Text("Ana")},
		{"DNI": padron.Number(27000111), "Nombre": padron.Text("Luis")},
	}
	d := &padron.Discovery{
		DestinationFields: []string{"dni", "nombre"},
		SourceColumns:     []string{"DNI", "Nombre"},
		SourceRows:        rows,
		RowCount:          len(rows),
	}
	return padron.NewSession("padron.csv", d, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (handler.APIResponse, map[string]interface{}) {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]interface{})
	return resp, data
}

func TestImportHandler_Upload_Success(t *testing.T) {
	h, svc := newImportHandler()
	sess := sampleSession()

	svc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Roster.Name == "padron.csv" &&
			string(in.Roster.Data) == "DNI,Nombre\n1,Ana\n" &&
			in.Template != nil && in.Template.Name == "plantilla.csv" &&
			in.UploadedBy == "operador"
	})).Return(sess, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("roster", "padron.csv")
	part.Write([]byte("DNI,Nombre\n1,Ana\n"))
	part, _ = writer.CreateFormFile("template", "plantilla.csv")
	part.Write([]byte("dni,nombre\n"))
	writer.WriteField("uploaded_by", "operador")
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/imports", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp, data := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "mapping", data["state"])
	assert.Equal(t, float64(3), data["row_count"])
	assert.Len(t, data["preview"], 2)
	assert.Equal(t, float64(2), data["mapped_count"])
	svc.AssertExpectations(t)
}

func TestImportHandler_Upload_NoFile(t *testing.T) {
	h, svc := newImportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/imports", http.NoBody)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestImportHandler_Upload_ParseError(t *testing.T) {
	h, svc := newImportHandler()
	svc.On("Upload", mock.Anything, mock.Anything).
		Return(nil, &padron.FileParseError{File: "padron.xlsx", Cause: "zip: not a valid zip file"})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("roster", "padron.xlsx")
	part.Write([]byte("garbage"))
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/imports", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "FILE_PARSE_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "padron.xlsx")
}

func TestImportHandler_Get_InvalidID(t *testing.T) {
	h, _ := newImportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/nope", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandler_Get_NotFound(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(nil, domain.ErrSessionNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.Code)
}

func TestImportHandler_UpdateMapping(t *testing.T) {
	h, svc := newImportHandler()
	sess := sampleSession()
	svc.On("UpdateMapping", mock.Anything, sess.ID, padron.FieldMapping{"nombre": "", "dni": "DNI"}).Return(sess, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/v1/imports/"+sess.ID.String()+"/mapping",
		map[string]interface{}{"mapping": map[string]interface{}{"nombre": nil, "dni": "DNI"}})
	c.Params = gin.Params{{Key: "id", Value: sess.ID.String()}}

	h.UpdateMapping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestImportHandler_UpdateMapping_Invalid(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("UpdateMapping", mock.Anything, id, mock.Anything).
		Return(nil, errors.Join(domain.ErrInvalidMapping, errors.New(`unknown source column "X"`)))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/v1/imports/"+id.String()+"/mapping",
		map[string]interface{}{"mapping": map[string]string{"dni": "X"}})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.UpdateMapping(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "INVALID_MAPPING", resp.Error.Code)
}

func TestImportHandler_Suggestions_MissingField(t *testing.T) {
	h, _ := newImportHandler()
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/suggestions", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Suggestions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandler_Suggestions(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Suggest", mock.Anything, id, "fecha_nacimiento").
		Return([]padron.Suggestion{{Column: "FNac", Distance: 3}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/suggestions?field=fecha_nacimiento", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Suggestions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"column":"FNac"`)
}

func TestImportHandler_Convert(t *testing.T) {
	h, svc := newImportHandler()
	sess := sampleSession()
	sess.State = padron.StateConverted
	sess.Result = &padron.ReconciliationResult{NewRecords: []padron.Record{{Row: 1}}, ExistingRecords: []padron.ExistingRecord{}, Unidentified: []padron.Record{}}
	svc.On("Convert", mock.Anything, sess.ID, service.ConvertInput{ObraSocialID: 7}).Return(sess, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+sess.ID.String()+"/convert", map[string]int{"obra_social_id": 7})
	c.Params = gin.Params{{Key: "id", Value: sess.ID.String()}}

	h.Convert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, map[string]interface{}{"new": float64(1), "existing": float64(0), "unidentified": float64(0)}, data["summary"])
}

func TestImportHandler_Convert_MissingObraSocial(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+id.String()+"/convert", map[string]int{})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Convert(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportHandler_Commit_Sync(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	outcome := &padron.ImportOutcome{SuccessCount: 2, Created: 2, Errors: []padron.RowError{{Row: 3, Error: "row 3: missing required fields: dni"}}}
	svc.On("Commit", mock.Anything, id, service.CommitInput{Mode: "new_only", NotifyEmail: "admin@clinica.com", CreatedBy: "operador"}).
		Return(outcome, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+id.String()+"/commit",
		map[string]interface{}{"mode": "new_only", "notify_email": "admin@clinica.com"})
	c.Request.Header.Set("X-Operator", "operador")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Commit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, float64(2), data["success_count"])
	assert.Len(t, data["errors"], 1)
}

func TestImportHandler_Commit_Async(t *testing.T) {
	h, svc := newImportHandler()
	sess := sampleSession()
	sess.State = padron.StateRunning
	svc.On("StartCommit", mock.Anything, sess.ID, mock.AnythingOfType("service.CommitInput")).Return(sess, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+sess.ID.String()+"/commit",
		map[string]interface{}{"mode": "all", "async": true})
	c.Params = gin.Params{{Key: "id", Value: sess.ID.String()}}

	h.Commit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "running", data["state"])
	svc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportHandler_Commit_Conflicts(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{domain.ErrNotConverted, "NOT_CONVERTED"},
		{domain.ErrImportRunning, "IMPORT_RUNNING"},
		{domain.ErrImportCompleted, "IMPORT_COMPLETED"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h, svc := newImportHandler()
			id := uuid.New()
			svc.On("Commit", mock.Anything, id, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+id.String()+"/commit", map[string]string{"mode": "all"})
			c.Params = gin.Params{{Key: "id", Value: id.String()}}

			h.Commit(c)

			assert.Equal(t, http.StatusConflict, w.Code)
			resp, _ := decode(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestImportHandler_Commit_InvalidMode(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Commit", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvalidImportMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/imports/"+id.String()+"/commit", map[string]string{"mode": "everything"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Commit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "INVALID_IMPORT_MODE", resp.Error.Code)
}

func TestImportHandler_Progress(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Progress", mock.Anything, id).Return(&service.ProgressView{
		State:    padron.StateRunning,
		Progress: padron.Progress{Current: 40, Total: 120, Errors: 2},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/progress", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Progress(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "running", data["state"])
	assert.Equal(t, map[string]interface{}{"current": float64(40), "total": float64(120), "errors": float64(2)}, data["progress"])
}

func TestImportHandler_Export(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	export := service.NewRosterExport("padron_normalizado_2026-10-17.csv", []string{"dni", "nombre"},
		[]padron.Record{{Row: 1, DNI: "30111222", Nombre: "Juan"}})
	svc.On("Export", mock.Anything, id).Return(export, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/export", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "padron_normalizado_2026-10-17.csv")
	body := w.Body.Bytes()
	require.True(t, len(body) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3])
	lines := strings.Split(strings.TrimSpace(string(body[3:])), "\n")
	assert.Equal(t, "dni,nombre", strings.TrimSpace(lines[0]))
	assert.Equal(t, "30111222,Juan", strings.TrimSpace(lines[1]))
}

func TestImportHandler_Export_NotConverted(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Export", mock.Anything, id).Return(nil, domain.ErrNotConverted)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/export", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Export(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestImportHandler_Source(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("SourceURL", mock.Anything, id).Return("https://s3.example/roster", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/"+id.String()+"/source", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Source(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "https://s3.example/roster", data["url"])
}

func TestImportHandler_History(t *testing.T) {
	h, svc := newImportHandler()
	batches := []domain.ImportBatch{{ID: uuid.New(), FileName: "padron.csv", Status: domain.ImportBatchCompleted}}
	svc.On("History", mock.Anything, 0, 20).Return(batches, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/imports/history?limit=500", http.NoBody)

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, _ := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestImportHandler_Discard(t *testing.T) {
	h, svc := newImportHandler()
	id := uuid.New()
	svc.On("Discard", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/imports/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Discard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
