// Package server exposes sign generation over HTTP.
package server

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/unixpickle/textsign"
)

// MaxBodySize limits the size of a project document.
const MaxBodySize = 1 << 20

const (
	RequestIDHeader = "X-Request-ID"
	FallbackHeader  = "X-Textsign-Fallbacks"
	OpenEdgesHeader = "X-Textsign-Open-Edges"
)

// A Handler serves generation requests. Fields of Base that a project
// document does not carry, such as the scale and the 3MF options, are
// used for every request.
type Handler struct {
	Generator *textsign.Generator
	Base      textsign.Config
	Logger    *log.Logger
}

// New creates an engine with the sign routes.
func New(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID)
	r.GET("/healthz", h.Health)
	v1 := r.Group("/v1")
	{
		v1.POST("/signs", h.CreateSign)
	}
	return r
}

func requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateSign reads a project document and responds with the generated
// file. The format is chosen with the "format" query parameter and
// defaults to STL.
func (h *Handler) CreateSign(c *gin.Context) {
	logger := log.New(h.logOutput(), "["+c.GetString("requestID")+"] ", log.LstdFlags)

	format, err := textsign.ParseFormat(c.DefaultQuery("format", "stl"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize))
	if err != nil {
		status := http.StatusBadRequest
		if errors.As(err, new(*http.MaxBytesError)) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	sign, err := textsign.ParseSign(body, logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := sign.Config(h.Base)
	gen := *h.Generator
	gen.Logger = logger
	m, report, err := gen.Build(sign.Text, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, textsign.ErrEmptyInput) || errors.Is(err, textsign.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		logger.Printf("generation failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := gen.Write(&buf, format, m, cfg); err != nil {
		logger.Printf("encoding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Printf("generated %s: %d triangles, %d regions", format, report.Triangles, report.Regions)

	c.Header(FallbackHeader, strconv.Itoa(report.Fallbacks))
	c.Header(OpenEdgesHeader, strconv.Itoa(report.OpenEdges))
	c.Header("Content-Disposition", `attachment; filename="sign`+format.Ext()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *Handler) logOutput() io.Writer {
	if h.Logger == nil {
		return io.Discard
	}
	return h.Logger.Writer()
}
