package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"padron/internal/padron"
	"padron/internal/service"
)

// ImportHandler handles roster import endpoints.
type ImportHandler struct {
	importService service.ImportService
	previewRows   int
}

// NewImportHandler creates a new ImportHandler. Session responses carry up
// to previewRows source rows.
func NewImportHandler(importService service.ImportService, previewRows int) *ImportHandler {
	return &ImportHandler{importService: importService, previewRows: previewRows}
}

// SessionView is the API representation of an import session.
type SessionView struct {
	ID                uuid.UUID             `json:"id"`
	FileName          string                `json:"file_name"`
	TemplateName      string                `json:"template_name,omitempty"`
	State             padron.State          `json:"state"`
	DestinationFields []string              `json:"destination_fields"`
	SourceColumns     []string              `json:"source_columns"`
	RowCount          int                   `json:"row_count"`
	Preview           []padron.Row          `json:"preview"`
	Mapping           padron.FieldMapping   `json:"mapping"`
	MappedCount       int                   `json:"mapped_count"`
	ObraSocialID      int64                 `json:"obra_social_id,omitempty"`
	Summary           *padron.Summary       `json:"summary,omitempty"`
	Mode              padron.Mode           `json:"mode,omitempty"`
	Progress          padron.Progress       `json:"progress"`
	Outcome           *padron.ImportOutcome `json:"outcome,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func (h *ImportHandler) view(s *padron.Session) SessionView {
	v := SessionView{
		ID:                s.ID,
		FileName:          s.FileName,
		TemplateName:      s.TemplateName,
		State:             s.State,
		DestinationFields: s.DestinationFields,
		SourceColumns:     s.SourceColumns,
		RowCount:          len(s.Rows),
		Preview:           s.Preview(h.previewRows),
		Mapping:           s.Mapping,
		MappedCount:       s.Mapping.Mapped(),
		ObraSocialID:      s.ObraSocialID,
		Mode:              s.Mode,
		Progress:          s.Progress,
		Outcome:           s.Outcome,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.Result != nil {
		sum := s.Result.Summary()
		v.Summary = &sum
	}
	return v
}

// UpdateMappingRequest is the body of PUT /imports/:id/mapping. A null
// column unmaps the field.
type UpdateMappingRequest struct {
	Mapping padron.FieldMapping `json:"mapping" binding:"required"`
}

// ConvertRequest is the body of POST /imports/:id/convert.
type ConvertRequest struct {
	ObraSocialID int64 `json:"obra_social_id" binding:"required,gt=0"`
}

// CommitRequest is the body of POST /imports/:id/commit.
type CommitRequest struct {
	Mode        string `json:"mode" binding:"required"`
	NotifyEmail string `json:"notify_email" binding:"omitempty,email"`
	Async       bool   `json:"async"`
}

// Upload handles POST /api/v1/imports
func (h *ImportHandler) Upload(c *gin.Context) {
	roster, err := readFormFile(c, "roster")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "roster field is required")
		return
	}

	input := service.UploadInput{
		Roster:     *roster,
		UploadedBy: c.PostForm("uploaded_by"),
	}
	if form := c.Request.MultipartForm; form != nil && len(form.File["template"]) > 0 {
		template, err := readFormFile(c, "template")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_TEMPLATE", "template could not be read")
			return
		}
		input.Template = template
	}

	sess, err := h.importService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, h.view(sess))
}

// Get handles GET /api/v1/imports/:id
func (h *ImportHandler) Get(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	sess, err := h.importService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(sess))
}

// Discard handles DELETE /api/v1/imports/:id
func (h *ImportHandler) Discard(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	if err := h.importService.Discard(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "import session discarded"})
}

// UpdateMapping handles PUT /api/v1/imports/:id/mapping
func (h *ImportHandler) UpdateMapping(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.importService.UpdateMapping(c.Request.Context(), id, req.Mapping)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(sess))
}

// Suggestions handles GET /api/v1/imports/:id/suggestions?field=
func (h *ImportHandler) Suggestions(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	field := c.Query("field")
	if field == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "field query parameter is required")
		return
	}
	suggestions, err := h.importService.Suggest(c.Request.Context(), id, field)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, suggestions)
}

// Convert handles POST /api/v1/imports/:id/convert
func (h *ImportHandler) Convert(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.importService.Convert(c.Request.Context(), id, service.ConvertInput{ObraSocialID: req.ObraSocialID})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(sess))
}

// Commit handles POST /api/v1/imports/:id/commit. With async set the commit
// runs in the background and progress is polled from /progress.
func (h *ImportHandler) Commit(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	input := service.CommitInput{
		Mode:        req.Mode,
		NotifyEmail: req.NotifyEmail,
		CreatedBy:   c.GetHeader("X-Operator"),
	}

	if req.Async {
		sess, err := h.importService.StartCommit(c.Request.Context(), id, input)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondAccepted(c, h.view(sess))
		return
	}

	outcome, err := h.importService.Commit(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcome)
}

// Progress handles GET /api/v1/imports/:id/progress
func (h *ImportHandler) Progress(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	view, err := h.importService.Progress(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Export handles GET /api/v1/imports/:id/export
func (h *ImportHandler) Export(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	export, err := h.importService.Export(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("session_id", id.String()).Msg("writing export failed")
	}
}

// Source handles GET /api/v1/imports/:id/source
func (h *ImportHandler) Source(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	url, err := h.importService.SourceURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// History handles GET /api/v1/imports/history
func (h *ImportHandler) History(c *gin.Context) {
	offset, limit := pagination(c)
	batches, total, err := h.importService.History(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

func readFormFile(c *gin.Context, field string) (*service.FileInput, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &service.FileInput{Name: header.Filename, Data: data}, nil
}
