package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-directory/internal/application/usecase/interchange"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

const maxImportBytes = 10 << 20

type InterchangeHandler struct {
	importUseCase *interchange.ImportUseCase
	exportUseCase *interchange.ExportUseCase
}

func NewInterchangeHandler(importUC *interchange.ImportUseCase, exportUC *interchange.ExportUseCase) *InterchangeHandler {
	return &InterchangeHandler{importUseCase: importUC, exportUseCase: exportUC}
}

// Import accepts the file as multipart field "file" or as a raw text/csv body.
func (h *InterchangeHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var src io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.Error(apperror.NewInvalidInput("cannot open uploaded file", err))
			return
		}
		defer f.Close()
		src = f
	} else if c.ContentType() == "text/csv" {
		src = c.Request.Body
	} else {
		c.Error(apperror.NewInvalidInput("expected multipart field 'file' or a text/csv body", err))
		return
	}

	report, err := h.importUseCase.Execute(c.Request.Context(), src)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export renders the whole file before sending it so a failure can still be
// reported with a proper status.
func (h *InterchangeHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.exportUseCase.Execute(c.Request.Context(), &buf); err != nil {
		c.Error(err)
		return
	}
	filename := fmt.Sprintf("directory-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
