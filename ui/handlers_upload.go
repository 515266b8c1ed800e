package ui

import (
	"net/http"

	"churnboard/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleUpload stores each uploaded workbook under its given name.
func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		s.abortWithError(c, errors.InvalidInput("malformed multipart request"))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		s.abortWithError(c, errors.InvalidInput("no files part in the request"))
		return
	}

	saved := make([]string, 0, len(files))
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			s.abortWithError(c, errors.Wrapf(err, "failed to open upload %q", header.Filename))
			return
		}
		size, err := s.store.Store(c.Request.Context(), src, header.Filename)
		src.Close()
		if err != nil {
			s.abortWithError(c, errors.Wrapf(err, "failed to store %q", header.Filename))
			return
		}
		saved = append(saved, header.Filename)

		if s.registry != nil {
			if err := s.registry.RecordUpload(c.Request.Context(), header.Filename, size); err != nil {
				// Registry is audit-only; a failed record must not fail the upload.
				s.log.Warn("upload registry record failed for %q: %v", header.Filename, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Files uploaded successfully",
		"files":   saved,
	})
}

// handleGetFiles lists stored workbook names.
func (s *Server) handleGetFiles(c *gin.Context) {
	files, err := s.store.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// handleDeleteFile removes one workbook.
func (s *Server) handleDeleteFile(c *gin.Context) {
	file := c.Param("file")
	if err := s.store.Delete(c.Request.Context(), file); err != nil {
		s.abortWithError(c, err)
		return
	}

	if s.registry != nil {
		if err := s.registry.RecordDelete(c.Request.Context(), file); err != nil {
			s.log.Warn("upload registry record failed for %q: %v", file, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": file + " deleted successfully"})
}

// handleUploadEvents returns the recent upload audit trail when the
// registry database is configured.
func (s *Server) handleUploadEvents(c *gin.Context) {
	if s.registry == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "events": []struct{}{}})
		return
	}

	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if limit < 1 {
		s.abortWithError(c, errors.InvalidInput("limit must be a positive integer"))
		return
	}

	events, err := s.registry.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "events": events, "limit": limit})
}
