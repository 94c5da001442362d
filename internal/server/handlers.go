package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutejaLucky/docExtract/constants"
	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/pipeline"
)

const healthTimeout = 2 * time.Second

// Upload accepts a multipart "file" (PDF) and an optional "po_number",
// saves the document under the upload dir and runs it through the pipeline.
func (s *Server) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		// An empty filename parses as a plain form value rather than a file.
		if form := c.Request.MultipartForm; form != nil && len(form.Value["file"]) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	name := filepath.Base(strings.TrimSpace(fh.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !constants.IsAllowedExt(filepath.Ext(name)) {
		writeError(c, common.InputError("only PDF documents are accepted"))
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(c, common.NewAppError(common.CodeConfig, "prepare upload dir", err))
		return
	}
	dst := filepath.Join(s.uploadDir, uploadName(GetRequestID(c), name))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		writeError(c, common.NewAppError(common.CodeInput, "save upload", err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()
	sub, err := s.submitter.Submit(ctx, pipeline.SubmitRequest{
		Path:     dst,
		PONumber: c.PostForm("po_number"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub.Response())
}

// Health reports liveness and, when configured, store reachability.
func (s *Server) Health(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "disabled"})
		return
	}
	if err := s.store.HealthCheck(c.Request.Context(), healthTimeout); err != nil {
		s.logger.Warn("health.store.unreachable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}

// uploadName keeps concurrent uploads of the same file from clobbering each other.
// Only [A-Za-z0-9-] of the request id is used.
func uploadName(requestID, name string) string {
	prefix := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, requestID)
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s_%s", prefix, name)
}
