package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinsight/bleedrisk/internal/assessment"
	"github.com/clinsight/bleedrisk/internal/cache"
	"github.com/clinsight/bleedrisk/internal/config"
	apperrors "github.com/clinsight/bleedrisk/internal/errors"
	"github.com/clinsight/bleedrisk/internal/model"
	"github.com/clinsight/bleedrisk/internal/monitoring"
	"github.com/clinsight/bleedrisk/internal/ratelimit"
	"github.com/clinsight/bleedrisk/internal/schema"
)

// app holds the process-wide, read-only pipeline wired at startup. The
// bundle and explainer are expensive to construct and never mutated, so
// concurrent handlers share them freely.
type app struct {
	cfg       *config.Config
	logger    *monitoring.Logger
	metrics   *monitoring.Metrics
	bundle    *model.Bundle
	explainer *model.Explainer
	assessor  *assessment.Assessor
	cache     *cache.Cache
	redis     *ratelimit.RedisClient
	limiter   *ratelimit.RateLimiter
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Stop()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", "error", err)
		}
	}
}

// handleAssess runs the full pipeline for one patient record.
//
// @Summary Assess bleeding risk
// @Description Assembles the feature vector for one patient, scores it and returns the risk band with a per-feature explanation.
// @Tags assessment
// @Accept json
// @Produce json
// @Param record body assessment.PatientRecord true "Patient clinical parameters"
// @Success 200 {object} assessment.Result
// @Failure 400 {object} map[string]string "input outside its declared domain"
// @Failure 422 {object} map[string]string "scoring or explanation failed"
// @Failure 429 {object} map[string]string "rate limited"
// @Router /assess [post]
func (a *app) handleAssess(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var rec assessment.PatientRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		// Field-level violations carry validator detail; anything else from
		// binding (malformed JSON, wrong types) is still a client problem.
		appErr := apperrors.ToAppError(err)
		if appErr.Category != apperrors.CategoryInputDomain {
			appErr = apperrors.NewInputDomainError("request binding failed", err)
		}
		appErr.RequestID = requestID
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"category":   appErr.Category,
			"message":    appErr.Message,
			"request_id": requestID,
		})
		return
	}

	var key string
	if a.cache != nil {
		key = cache.Key(rec)
		if cached, ok := a.cache.Get(key); ok {
			a.metrics.IncrementCacheHit()
			a.logger.AssessmentLogger(requestID, cached.Probability, string(cached.Band), string(cached.Label), time.Since(start), true)
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
		a.metrics.IncrementCacheMiss()
	}

	result, err := a.assessor.Assess(rec)
	if err != nil {
		appErr := apperrors.ToAppError(err)
		appErr.RequestID = requestID
		if appErr.Category == apperrors.CategoryInference {
			a.metrics.IncrementInferenceError()
		}
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"category":   appErr.Category,
			"message":    appErr.Message,
			"request_id": requestID,
		})
		return
	}

	a.metrics.IncrementAssessment()
	if a.cache != nil {
		a.cache.Set(key, result)
	}
	a.logger.AssessmentLogger(requestID, result.Probability, string(result.Band), string(result.Label), time.Since(start), false)
	c.JSON(http.StatusOK, result)
}

// handleSchema returns the feature schema the form builds its controls
// from: names, kinds, bounds and defaults, in model column order.
//
// @Summary Feature schema
// @Tags assessment
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /schema [get]
func (a *app) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":  schema.Version,
		"features": schema.Features,
	})
}

// handleModelInfo returns model metadata and the configured decision
// points for display.
//
// @Summary Model metadata
// @Tags assessment
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /model [get]
func (a *app) handleModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"model_type":     a.bundle.ModelType,
		"model_version":  a.bundle.ModelVersion,
		"schema_version": a.bundle.SchemaVersion,
		"feature_count":  len(a.bundle.FeatureNames),
		"base_score":     a.bundle.BaseScore,
		"baseline":       a.explainer.ExpectedValue(),
		"thresholds":     a.assessor.Thresholds(),
	})
}

// handleHealth reports liveness and a metrics snapshot.
func (a *app) handleHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"model":     a.bundle.ModelVersion,
		"metrics":   a.metrics.Stats(),
	}
	if a.redis != nil && a.redis.IsEnabled() {
		if err := a.redis.HealthCheck(c.Request.Context()); err != nil {
			health["redis"] = "degraded"
		} else {
			health["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, health)
}
