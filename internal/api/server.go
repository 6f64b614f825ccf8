// Package api binds the pricing and analytics operations onto a JSON HTTP
// surface. All domain errors are classified here into status codes; the core
// packages never see HTTP.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dynamic-pricing/internal/analytics"
	"dynamic-pricing/internal/domain"
	"dynamic-pricing/internal/observability"
	"dynamic-pricing/internal/pricing"
	"dynamic-pricing/internal/service"
)

// defaultWindowDays is the analytics window used when the client does not
// pass one.
const defaultWindowDays = 7

// Server exposes the pricing core over HTTP.
type Server struct {
	pricingService *service.PricingService
	aggregator     *analytics.Aggregator
	logger         *log.Logger
	router         *gin.Engine
}

// NewServer creates an HTTP server around the pricing service and aggregator.
func NewServer(pricingService *service.PricingService, aggregator *analytics.Aggregator, logger *log.Logger) *Server {
	s := &Server{
		pricingService: pricingService,
		aggregator:     aggregator,
		logger:         logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/calculate-price", s.handleCalculatePrice)
	router.GET("/analytics/pricing-performance", s.handlePricingPerformance)
	router.POST("/competitor-prices/update", s.handleCompetitorUpdate)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	s.router = router
	return s
}

// Router returns the underlying HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleCalculatePrice computes a recommended price and logs the decision.
func (s *Server) handleCalculatePrice(c *gin.Context) {
	start := time.Now()

	var req domain.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Printf("calculate-price: bad request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		s.observe("calculate_price", http.StatusBadRequest, start)
		return
	}

	result, err := s.pricingService.CalculatePrice(c.Request.Context(), &req)
	if err != nil {
		status := classifyError(err)
		s.logger.Printf("calculate-price: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		s.observe("calculate_price", status, start)
		return
	}

	c.JSON(http.StatusOK, result)
	s.observe("calculate_price", http.StatusOK, start)
}

// handlePricingPerformance aggregates the recent pricing decisions.
func (s *Server) handlePricingPerformance(c *gin.Context) {
	start := time.Now()

	productID := c.Query("product_id")
	windowDays := defaultWindowDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			s.observe("pricing_performance", http.StatusBadRequest, start)
			return
		}
		windowDays = parsed
	}

	result, err := s.aggregator.PricingPerformance(c.Request.Context(), productID, windowDays)
	if err != nil {
		status := classifyError(err)
		s.logger.Printf("pricing-performance: %v", err)
		observability.RecordAnalyticsRun("error")
		c.JSON(status, gin.H{"error": err.Error()})
		s.observe("pricing_performance", status, start)
		return
	}

	observability.RecordAnalyticsRun("success")
	c.JSON(http.StatusOK, result)
	s.observe("pricing_performance", http.StatusOK, start)
}

// handleCompetitorUpdate stores a batch of competitor price observations.
func (s *Server) handleCompetitorUpdate(c *gin.Context) {
	start := time.Now()

	var updates []service.CompetitorPriceUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		s.logger.Printf("competitor-prices/update: bad request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		s.observe("competitor_update", http.StatusBadRequest, start)
		return
	}

	stored, err := s.pricingService.UpdateCompetitorPrices(c.Request.Context(), updates)
	if err != nil {
		status := classifyError(err)
		s.logger.Printf("competitor-prices/update: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		s.observe("competitor_update", status, start)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": stored})
	s.observe("competitor_update", http.StatusOK, start)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// classifyError maps core errors onto status codes: validation failures are
// the client's fault, everything else is a store problem.
func classifyError(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, pricing.ErrInvalidSegment),
		errors.Is(err, analytics.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidUpdate):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) observe(handler string, status int, start time.Time) {
	observability.ObserveRequest(handler, strconv.Itoa(status), time.Since(start).Seconds())
}
