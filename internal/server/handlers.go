package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/chew-z/crop-identifier/internal/api"
	"github.com/chew-z/crop-identifier/internal/identify"
	"github.com/chew-z/crop-identifier/internal/imagefile"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for form fields and boundaries around the image
const multipartOverhead = 1 << 20

// handleError sends a standardized error response with context-aware cancellation handling
func handleError(c *gin.Context, err error) {
	// Check for context cancellation (client disconnected)
	if errors.Is(err, context.Canceled) {
		c.JSON(499, gin.H{"error": "request canceled"})
		return
	}
	var se *api.StatusError
	if errors.As(err, &se) {
		c.JSON(se.StatusCode, se)
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrInternalServer(err.Error()))
}

// submission is one parsed upload form
type submission struct {
	image  []byte
	prompt string
	label  string
}

// readSubmission parses the multipart form. A request without a file yields an empty image.
func (s *Server) readSubmission(c *gin.Context) (*submission, error) {
	limit := s.config.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile("image")
	sub := &submission{
		prompt: c.PostForm("prompt"),
		label:  c.PostForm("model"),
	}
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return sub, nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, api.ErrPayloadTooLarge(fmt.Sprintf("image exceeds %d MB", limit>>20))
		}
		return nil, api.ErrBadRequest("Invalid upload: " + err.Error())
	}

	if fh.Size > limit {
		return nil, api.ErrPayloadTooLarge(fmt.Sprintf("image exceeds %d MB", limit>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, api.ErrBadRequest("Invalid upload: " + err.Error())
	}
	defer f.Close()

	sub.image, err = io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, api.ErrBadRequest("Failed to read image: " + err.Error())
	}
	return sub, nil
}

// runIdentification validates a submission and runs it against the model
func (s *Server) runIdentification(c *gin.Context, sub *submission) (*identify.Result, imagefile.Info, error) {
	info, err := imagefile.Validate(sub.image)
	if err != nil {
		return nil, info, api.ErrBadRequest(err.Error())
	}

	modelID, ok := s.catalog.Resolve(sub.label)
	if !ok {
		return nil, info, api.ErrNotFound(fmt.Sprintf("model '%s' not found", sub.label))
	}

	res, err := s.identifier.Identify(c.Request.Context(), identify.Request{
		Image:  sub.image,
		Prompt: sub.prompt,
		Model:  modelID,
	})
	if err != nil {
		slog.Error("Identification failed", "request_id", c.GetString(requestIDKey), "model", modelID, "error", err)
		switch {
		case errors.Is(err, context.Canceled):
			return nil, info, err
		case errors.Is(err, identify.ErrMissingCredential):
			return nil, info, api.ErrServiceUnavailable(err.Error())
		case errors.Is(err, identify.ErrMissingImage), errors.Is(err, identify.ErrUnknownModel):
			return nil, info, api.ErrBadRequest(err.Error())
		default:
			return nil, info, api.ErrBadGateway(err.Error())
		}
	}

	slog.Info("Identification finished",
		"request_id", c.GetString(requestIDKey),
		"model", res.Model,
		"format", res.Format,
		"image_mime", info.MIME,
		"image_bytes", info.Size,
	)
	return res, info, nil
}

// handleIdentify is the JSON flavor of the upload form
func (s *Server) handleIdentify(c *gin.Context) {
	if !s.identifier.Enabled() {
		handleError(c, api.ErrServiceUnavailable(identify.ErrMissingCredential.Error()))
		return
	}

	sub, err := s.readSubmission(c)
	if err != nil {
		handleError(c, err)
		return
	}
	if len(sub.image) == 0 {
		handleError(c, api.ErrBadRequest(identify.ErrMissingImage.Error()))
		return
	}

	res, _, err := s.runIdentification(c, sub)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.IdentifyResponse{
		RequestID: c.GetString(requestIDKey),
		Model:     res.Model,
		Content:   res.Content,
		Format:    string(res.Format),
	})
}

// modelOption is one entry of the page's model dropdown
type modelOption struct {
	Label    string
	Selected bool
}

// page is the data rendered by index.html
type page struct {
	Enabled  bool
	Prompt   string
	Models   []modelOption
	Result   *identify.Result
	Error    string
	ImageURI template.URL
}

func (s *Server) newPage(prompt, label string) page {
	if prompt == "" {
		prompt = identify.DefaultPrompt
	}
	if label == "" {
		label = s.catalog.DefaultModel().Label
	}
	p := page{
		Enabled: s.identifier.Enabled(),
		Prompt:  prompt,
	}
	for _, m := range s.catalog.Models() {
		p.Models = append(p.Models, modelOption{Label: m.Label, Selected: m.Label == label})
	}
	return p
}

// handleIndex renders the upload page
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.newPage("", ""))
}

// handleIndexSubmit handles the upload form. Without an image or an API key the
// page is simply shown again.
func (s *Server) handleIndexSubmit(c *gin.Context) {
	if !s.identifier.Enabled() {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes()+multipartOverhead)
		c.HTML(http.StatusOK, "index.html", s.newPage(c.PostForm("prompt"), c.PostForm("model")))
		return
	}

	sub, err := s.readSubmission(c)
	if err != nil {
		p := s.newPage("", "")
		p.Error = err.Error()
		status := http.StatusBadRequest
		var se *api.StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		c.HTML(status, "index.html", p)
		return
	}

	p := s.newPage(sub.prompt, sub.label)
	if len(sub.image) == 0 {
		c.HTML(http.StatusOK, "index.html", p)
		return
	}

	res, info, err := s.runIdentification(c, sub)
	if info.MIME != "" {
		p.ImageURI = template.URL(imageDataURI(info.MIME, sub.image))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.Error = err.Error()
		c.HTML(http.StatusOK, "index.html", p)
		return
	}

	p.Result = res
	c.HTML(http.StatusOK, "index.html", p)
}

// imageDataURI builds the preview URI for the uploaded image
func imageDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// handleModels returns the model catalog
func (s *Server) handleModels(c *gin.Context) {
	def := s.catalog.DefaultModel()
	resp := api.ModelsResponse{}
	for _, m := range s.catalog.Models() {
		resp.Models = append(resp.Models, api.ModelEntry{
			Label:   m.Label,
			ID:      m.ID,
			Default: m.Label == def.Label,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleVersion returns the API version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": Version,
	})
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:           "ok",
		APIKeyConfigured: s.identifier.Enabled(),
	})
}
