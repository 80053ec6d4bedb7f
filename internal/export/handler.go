package export

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studymatrix-backend/internal/shared/server/respond"
	"studymatrix-backend/internal/studies"
)

// Handler serves the matrix in CSV form.
type Handler struct {
	Store *studies.Store
}

// NewHandler constructs a Handler.
func NewHandler(store *studies.Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studies/export", h.clipboard)
	rg.GET("/studies/export.csv", h.download)
}

// clipboard returns the CSV text as JSON for clients copying it to the
// system clipboard. No BOM here; it is only needed for files.
func (h *Handler) clipboard(c *gin.Context) {
	respond.OK(c, gin.H{
		"csv":      CSV(h.Store.Records()),
		"fileName": FileName(time.Now().UTC()),
	})
}

func (h *Handler) download(c *gin.Context) {
	name := FileName(time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(BOM+CSV(h.Store.Records())))
}
