package studies

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studymatrix-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB, the practical inline-payload ceiling

// BatchProcessor starts asynchronous analysis of a batch of files. The
// returned statuses are the pending entries created for the batch.
type BatchProcessor interface {
	Process(ctx context.Context, files []UploadFile) (batchID string, statuses []FileStatus, err error)
}

// Handler wires HTTP handlers to the store and pipeline.
type Handler struct {
	Store     *Store
	Processor BatchProcessor
}

// NewHandler constructs a Handler.
func NewHandler(store *Store, processor BatchProcessor) *Handler {
	return &Handler{Store: store, Processor: processor}
}

// RegisterRoutes attaches study routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/studies", h.upload)
	rg.GET("/studies", h.list)
	rg.DELETE("/studies/:id", h.remove)
	rg.DELETE("/studies", h.clear)
}

func (h *Handler) upload(c *gin.Context) {
	if h.Store.ReadOnly() {
		respond.Error(c, http.StatusConflict, "read_only", "shared matrix is read-only", nil)
		return
	}
	if h.Store.Processing() {
		respond.Error(c, http.StatusConflict, "batch_active", "a batch is already processing", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	files := make([]UploadFile, 0, len(headers))
	for _, fh := range headers {
		upload := UploadFile{
			FileID:   uuid.NewString(),
			FileName: fh.Filename,
		}
		// A file that cannot be read is still entered into the batch; the
		// pipeline routes its empty payload to the error state.
		if f, err := fh.Open(); err == nil {
			if data, err := io.ReadAll(f); err == nil {
				upload.Data = data
			}
			f.Close()
		}
		files = append(files, upload)
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	batchID, statuses, err := h.Processor.Process(ctx, files)
	if err != nil {
		switch {
		case errors.Is(err, ErrReadOnly):
			respond.Error(c, http.StatusConflict, "read_only", "shared matrix is read-only", nil)
		case errors.Is(err, ErrBatchActive):
			respond.Error(c, http.StatusConflict, "batch_active", "a batch is already processing", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start batch", nil)
		}
		return
	}

	c.Set("batchId", batchID)
	respond.JSON(c, http.StatusAccepted, UploadResponse{
		BatchID:    batchID,
		Statuses:   statuses,
		Processing: true,
	})
}

func (h *Handler) list(c *gin.Context) {
	c.Set("readOnly", h.Store.ReadOnly())
	respond.OK(c, ListResponse{
		Records:    h.Store.Records(),
		Statuses:   h.Store.Statuses(),
		Processing: h.Store.Processing(),
		ReadOnly:   h.Store.ReadOnly(),
	})
}

func (h *Handler) remove(c *gin.Context) {
	if h.Store.Processing() {
		respond.Error(c, http.StatusConflict, "batch_active", "a batch is already processing", nil)
		return
	}
	if err := h.Store.Remove(c.Param("id")); err != nil {
		respond.Error(c, http.StatusConflict, "read_only", "shared matrix is read-only", nil)
		return
	}
	respond.OK(c, gin.H{"removed": c.Param("id")})
}

func (h *Handler) clear(c *gin.Context) {
	if h.Store.Processing() {
		respond.Error(c, http.StatusConflict, "batch_active", "a batch is already processing", nil)
		return
	}
	if err := h.Store.Clear(); err != nil {
		respond.Error(c, http.StatusConflict, "read_only", "shared matrix is read-only", nil)
		return
	}
	respond.OK(c, gin.H{"cleared": true})
}
