package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/engine"
)

// maxDocumentSize caps uploaded document bodies at 4 MiB after decompression.
const maxDocumentSize = 4 << 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lumen",
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.manager.Stats())
}

// handleOpen accepts a document body, parses it, and spawns an instance.
// YAML is selected by Content-Type; gzip by Content-Encoding.
func (s *Server) handleOpen(c *gin.Context) {
	body, err := documentBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := engine.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = engine.FormatYAML
	}

	inst, err := s.manager.Open(body, format)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"instance": inst.ID,
		"document": inst.Doc.ID,
	})
}

func (s *Server) handleList(c *gin.Context) {
	type entry struct {
		Instance string `json:"instance"`
		Document string `json:"document"`
	}
	out := []entry{}
	for _, inst := range s.manager.List() {
		out = append(out, entry{Instance: inst.ID, Document: inst.Doc.ID})
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *Server) handleTree(c *gin.Context) {
	inst, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document instance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tree": inst.Tree()})
}

// handleEvent dispatches a node event into the instance's action queue and
// waits for it to complete.
func (s *Server) handleEvent(c *gin.Context) {
	inst, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document instance"})
		return
	}

	var req struct {
		Node  string `json:"node" binding:"required"`
		Event string `json:"event" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := inst.DispatchEvent(c.Request.Context(), req.Node, req.Event); err != nil {
		s.logger.Warn("event dispatch failed",
			zap.String("instance", inst.ID),
			zap.String("node", req.Node),
			zap.String("event", req.Event),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dispatched"})
}

func (s *Server) handleClose(c *gin.Context) {
	if !s.manager.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document instance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// documentBody reads the request body, transparently inflating gzip.
func documentBody(c *gin.Context) ([]byte, error) {
	var reader io.Reader = c.Request.Body
	if strings.EqualFold(c.GetHeader("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d byte limit", maxDocumentSize)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty document body")
	}
	return body, nil
}
