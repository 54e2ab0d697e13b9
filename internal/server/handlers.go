package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind/methods"
)

const (
	// DefaultSampleCount is the number of points in a sample request which
	// does not give one.
	DefaultSampleCount = 101
	// MaxSampleCount is the most points a sample request may ask for. It
	// matches the binding tag on SampleRequest.Count.
	MaxSampleCount = 10000
)

// MethodInfo describes a method for clients building forms and tables.
type MethodInfo struct {
	Name    methods.Method `json:"name"`
	Columns []string       `json:"columns"`
}

// EvaluateRequest asks for the value of a function at X.
type EvaluateRequest struct {
	methods.Expression
	X float64 `json:"x"`
}

// DerivativeRequest asks for the derivatives of a function up to Order,
// which is 1 if zero.
type DerivativeRequest struct {
	methods.Expression
	Order int `json:"order" binding:"omitempty,min=1,max=4"`
}

// SampleRequest asks for Count samples of a function from XMin to XMax.
// Count is DefaultSampleCount if zero.
type SampleRequest struct {
	methods.Expression
	XMin  float64 `json:"xMin"`
	XMax  float64 `json:"xMax"`
	Count int     `json:"count" binding:"omitempty,min=2,max=10000"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listMethods(c *gin.Context) {
	r := make([]MethodInfo, len(methods.Methods))
	for i, m := range methods.Methods {
		r[i] = MethodInfo{Name: m, Columns: m.Columns()}
	}
	c.JSON(http.StatusOK, r)
}

// solve runs a method. Runs which could not start respond 422; runs which
// started respond 200 whatever their status.
func (s *Server) solve(c *gin.Context) {
	var req methods.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.runs.Acquire(c.Request.Context(), 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled while waiting for a worker"})
		return
	}
	defer s.runs.Release(1)

	id := uuid.NewString()
	cfg := s.solver
	cfg.Logger = s.logger.With(zap.String("run_id", id))
	start := time.Now()
	rep, err := req.Run(cfg)
	s.metrics.ObserveRun(rep, time.Since(start))
	rep.ID = id
	if err != nil && rep.Status == methods.InvalidInput {
		s.logger.Debug("rejected run", zap.String("run_id", id), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, rep)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	v, err := req.At(req.X)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": req.X, "value": v})
}

func (s *Server) derivative(c *gin.Context) {
	var req DerivativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Order == 0 {
		req.Order = 1
	}
	d, err := req.Derivatives(req.Order)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"derivatives": d})
}

func (s *Server) sample(c *gin.Context) {
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count == 0 {
		req.Count = DefaultSampleCount
	}
	pts, err := req.Sample(req.XMin, req.XMax, req.Count)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": pts})
}
