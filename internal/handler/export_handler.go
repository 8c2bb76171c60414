package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

// maxImportBytes bounds an uploaded CSV export.
const maxImportBytes = 1 << 20

// Content types of the downloadable formats.
const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExportHandler turns a wizard state into downloadable documents.
type ExportHandler struct {
	exports   *service.ExportService
	analytics *service.AnalyticsService
	log       zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exports *service.ExportService, analytics *service.AnalyticsService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		exports:   exports,
		analytics: analytics,
		log:       log.With().Str("component", "export_handler").Logger(),
	}
}

// Export godoc
// POST /api/v1/export/:format
// Renders the posted wizard state as csv, json, xlsx or pdf. The email
// format returns an advisor email draft instead of a file.
func (h *ExportHandler) Export(c *gin.Context) {
	student, ok := bindStudent(c)
	if !ok {
		return
	}

	format := model.ExportMethod(strings.ToLower(c.Param("format")))
	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case model.ExportCSV:
		body, err = h.exports.CSV(student)
		contentType = contentTypeCSV
	case model.ExportJSON:
		var record model.AdvisingRecord
		record, err = h.exports.Record(student)
		if err == nil {
			body, err = json.MarshalIndent(record, "", "  ")
		}
		contentType = contentTypeJSON
	case model.ExportXLSX:
		body, err = h.exports.XLSX(student)
		contentType = contentTypeXLSX
	case model.ExportPDF:
		body, err = h.exports.PDF(student)
		contentType = contentTypePDF
	case model.ExportEmail:
		h.emailDraft(c, student)
		return
	default:
		err = service.ErrUnsupportedType
	}
	if err != nil {
		failService(c, h.log, err)
		return
	}

	h.analytics.TrackExport(c.Request.Context(), format)
	response.Attachment(c, h.exports.Filename(student, string(format)), contentType, body)
}

func (h *ExportHandler) emailDraft(c *gin.Context, student model.StudentData) {
	draft, err := h.exports.EmailDraft(student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	h.analytics.TrackExport(c.Request.Context(), model.ExportEmail)
	response.Success(c, http.StatusOK, draft)
}

// ImportCSV godoc
// POST /api/v1/import/csv
// Accepts a mobile CSV export, either as a multipart "file" field or as the
// raw request body, and returns the wizard state it encodes.
func (h *ExportHandler) ImportCSV(c *gin.Context) {
	var r io.Reader = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"file": "file is required"})
			return
		}
		if fh.Size > maxImportBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrInvalidPayload)
			return
		}
		f, err := fh.Open()
		if err != nil {
			failService(c, h.log, err)
			return
		}
		defer f.Close()
		r = f
	}

	student, err := h.exports.ParseCSV(r)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}
