package handler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"docutrack/internal/app"
	"docutrack/internal/model"
	"docutrack/internal/transport/http/middleware"
	"docutrack/internal/transport/http/response"
)

const maxUploadBytes = 20 << 20

type DocumentHandler struct {
	documents *app.DocumentService
}

func NewDocumentHandler(documents *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func actorEmail(c *gin.Context) string {
	if raw, exists := c.Get(middleware.ContextEmailKey); exists {
		if email, ok := raw.(string); ok {
			return email
		}
	}
	return ""
}

// documentView adds the reduced client-facing status alongside the workflow
// status.
type documentView struct {
	model.Document
	DisplayStatus string `json:"display_status"`
}

func toDocumentView(doc *model.Document) documentView {
	return documentView{
		Document:      *doc,
		DisplayStatus: doc.Status.Display(),
	}
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		response.Error(c, 500, response.CodeInternalServer, "list documents failed")
		return
	}

	views := make([]documentView, 0, len(docs))
	for i := range docs {
		views = append(views, toDocumentView(&docs[i]))
	}
	response.OK(c, views)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeDocumentError(c, err, "load document failed")
		return
	}
	response.OK(c, toDocumentView(doc))
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Error(c, 400, response.CodeBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, 500, response.CodeInternalServer, "open upload failed")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, 500, response.CodeInternalServer, "read upload failed")
		return
	}

	var deadline time.Time
	if raw := c.PostForm("deadline"); raw != "" {
		deadline, err = time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, 400, response.CodeBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
	}

	doc, err := h.documents.Upload(c.Request.Context(), app.UploadInput{
		FileName:   fileHeader.Filename,
		Data:       data,
		ClientName: c.PostForm("client_name"),
		Department: c.PostForm("department"),
		Priority:   model.Priority(c.PostForm("priority")),
		Deadline:   deadline,
		UploadedBy: actorEmail(c),
	})
	if err != nil {
		h.writeDocumentError(c, err, "upload document failed")
		return
	}
	response.OK(c, toDocumentView(doc))
}

type updateDocumentRequest struct {
	Name     *string `json:"name"`
	Content  *string `json:"content"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	input := app.SaveInput{
		ID:      c.Param("id"),
		Name:    req.Name,
		Content: req.Content,
		Actor:   actorEmail(c),
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		input.Priority = &priority
	}

	doc, err := h.documents.Save(c.Request.Context(), input)
	if err != nil {
		h.writeDocumentError(c, err, "update document failed")
		return
	}
	response.OK(c, toDocumentView(doc))
}

type createVersionRequest struct {
	Content string `json:"content" binding:"required"`
	Notes   string `json:"notes"`
}

func (h *DocumentHandler) CreateVersion(c *gin.Context) {
	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	doc, err := h.documents.CreateVersion(c.Request.Context(), c.Param("id"), req.Content, actorEmail(c), req.Notes)
	if err != nil {
		h.writeDocumentError(c, err, "create version failed")
		return
	}
	response.OK(c, toDocumentView(doc))
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeDocumentError(c, err, "delete document failed")
		return
	}
	response.OK(c, nil)
}

func (h *DocumentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	data, filename, err := h.documents.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		h.writeDocumentError(c, err, "export document failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/plain; charset=utf-8", data)
}

func (h *DocumentHandler) writeDocumentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrDocumentNotFound):
		response.Error(c, 404, response.CodeDocumentNotFound, "document not found")
	case errors.Is(err, app.ErrIllegalTransition):
		response.Error(c, 400, response.CodeIllegalTransition, err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, 400, response.CodeBadRequest, err.Error())
	default:
		response.Error(c, 500, response.CodeInternalServer, fallback)
	}
}
