package snapshot

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studymatrix-backend/internal/shared/server/respond"
	"studymatrix-backend/internal/shared/telemetry"
	"studymatrix-backend/internal/studies"
)

// TooLargeMessage is surfaced to the user when the matrix does not fit a
// share link. Kept in Arabic to match the matrix display language.
const TooLargeMessage = "عذراً، المصفوفة كبيرة جداً للمشاركة عبر الرابط المباشر."

// Handler wires the share endpoints to the store and codec.
type Handler struct {
	Store   *studies.Store
	Codec   *Codec
	BaseURL string
}

// NewHandler constructs a Handler.
func NewHandler(store *studies.Store, codec *Codec, baseURL string) *Handler {
	return &Handler{Store: store, Codec: codec, BaseURL: baseURL}
}

// RegisterRoutes attaches share routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/share", h.create)
	rg.POST("/share/open", h.open)
	rg.POST("/share/exit", h.exit)
}

func (h *Handler) create(c *gin.Context) {
	records := h.Store.Records()
	if len(records) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "nothing to share", nil)
		return
	}

	token, err := h.Codec.Encode(records)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "snapshot_too_large", TooLargeMessage, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode snapshot", nil)
		return
	}

	respond.OK(c, gin.H{
		"token": token,
		"url":   ShareURL(h.BaseURL, token),
	})
}

type openRequest struct {
	Fragment string `json:"fragment"`
	Token    string `json:"token"`
}

func (h *Handler) open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		extracted, ok := FromFragment(strings.TrimSpace(req.Fragment))
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "fragment does not carry a share token", nil)
			return
		}
		token = extracted
	}

	records, err := h.Codec.Decode(token)
	if err != nil {
		// A broken link must not disturb the current matrix; the store is
		// left untouched in read-write mode.
		telemetry.Error("snapshot.decode_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusBadRequest, "snapshot_invalid", "share token could not be decoded", nil)
		return
	}

	if err := h.Store.LoadSnapshot(records); err != nil {
		respond.Error(c, http.StatusConflict, "batch_active", "a batch is already processing", nil)
		return
	}

	c.Set("readOnly", true)
	respond.OK(c, studies.ListResponse{
		Records:  h.Store.Records(),
		Statuses: h.Store.Statuses(),
		ReadOnly: true,
	})
}

func (h *Handler) exit(c *gin.Context) {
	h.Store.ExitReadOnly()
	c.Set("readOnly", false)
	respond.OK(c, gin.H{"readOnly": false})
}
