// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/cache-service/internal/api/dto"
	"github.com/unifiedui/cache-service/internal/api/middleware"
	"github.com/unifiedui/cache-service/internal/core/cache"
	"github.com/unifiedui/cache-service/internal/domain/errors"
	"github.com/unifiedui/cache-service/internal/services/cacheadmin"
)

// CacheHandler handles key and database endpoints.
type CacheHandler struct {
	cacheService cacheadmin.Service
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cacheService cacheadmin.Service) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
	}
}

// boolQuery parses a boolean query parameter.
func boolQuery(c *gin.Context, name string, defaultValue bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidationError("invalid query parameter "+name, raw)
	}
	return v, nil
}

// Status handles GET /status
// @Summary Cache client status
// @Description Returns the connection state, whether the client is enabled and the selected database
// @Tags Cache
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Failure 503 {object} dto.ErrorResponse "Cache unreachable"
// @Router /api/v1/cache-service/status [get]
func (h *CacheHandler) Status(c *gin.Context) {
	status, err := h.cacheService.Status(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{
		State:    status.State,
		Enabled:  status.Enabled,
		Database: status.Database,
	})
}

// ListKeys handles GET /keys
// @Summary List keys
// @Description Returns the sorted keys matching a glob pattern
// @Tags Cache
// @Produce json
// @Param pattern query string false "Glob pattern" default(*)
// @Success 200 {object} dto.KeysResponse
// @Failure 503 {object} dto.ErrorResponse "Cache unreachable"
// @Router /api/v1/cache-service/keys [get]
func (h *CacheHandler) ListKeys(c *gin.Context) {
	res, err := h.cacheService.Keys(c.Request.Context(), c.Query("pattern"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.KeysResponse{
		Keys:     res.Value,
		Total:    len(res.Value),
		Disabled: res.IsDisabled(),
	})
}

// GetValue handles GET /keys/{key}
// @Summary Get a value
// @Description Returns the value of a key, decoded as JSON unless decode=false
// @Tags Cache
// @Produce json
// @Param key path string true "Key"
// @Param decode query bool false "Decode the stored value as JSON" default(true)
// @Success 200 {object} dto.ValueResponse
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 422 {object} dto.ErrorResponse "Stored value is not JSON"
// @Router /api/v1/cache-service/keys/{key} [get]
func (h *CacheHandler) GetValue(c *gin.Context) {
	key := c.Param("key")
	decode, err := boolQuery(c, "decode", true)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	res, err := h.cacheService.Get(c.Request.Context(), key, decode)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if res.IsDisabled() {
		c.JSON(http.StatusOK, dto.ValueResponse{Key: key, Disabled: true})
		return
	}
	if !res.Found() {
		middleware.HandleError(c, errors.NewNotFoundError("key", key))
		return
	}

	c.JSON(http.StatusOK, dto.ValueResponse{
		Key:   key,
		Value: res.Value,
		Found: true,
	})
}

// SetValue handles PUT /keys/{key}
// @Summary Store a value
// @Description Stores a value; non-string values are encoded as JSON
// @Tags Cache
// @Accept json
// @Produce json
// @Param key path string true "Key"
// @Param request body dto.SetValueRequest true "Value and optional TTL"
// @Success 200 {object} dto.AckResponse
// @Failure 400 {object} dto.ErrorResponse "Bad request - validation error"
// @Router /api/v1/cache-service/keys/{key} [put]
func (h *CacheHandler) SetValue(c *gin.Context) {
	var req dto.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	res, err := h.cacheService.Set(c.Request.Context(), c.Param("key"), req.Value, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{OK: res.Value, Disabled: res.IsDisabled()})
}

// DeleteKey handles DELETE /keys/{key}
// @Summary Delete a key
// @Tags Cache
// @Produce json
// @Param key path string true "Key"
// @Success 200 {object} dto.KeysResponse "Deleted keys"
// @Router /api/v1/cache-service/keys/{key} [delete]
func (h *CacheHandler) DeleteKey(c *gin.Context) {
	h.delete(c, c.Param("key"))
}

// DeleteKeys handles DELETE /keys
// @Summary Delete keys by pattern
// @Description Deletes every key matching a glob pattern and returns them
// @Tags Cache
// @Produce json
// @Param pattern query string true "Glob pattern"
// @Success 200 {object} dto.KeysResponse "Deleted keys"
// @Failure 400 {object} dto.ErrorResponse "Missing pattern"
// @Router /api/v1/cache-service/keys [delete]
func (h *CacheHandler) DeleteKeys(c *gin.Context) {
	h.delete(c, c.Query("pattern"))
}

func (h *CacheHandler) delete(c *gin.Context, keyOrPattern string) {
	res, err := h.cacheService.Delete(c.Request.Context(), keyOrPattern)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.KeysResponse{
		Keys:     res.Value,
		Total:    len(res.Value),
		Disabled: res.IsDisabled(),
	})
}

// Increment handles POST /keys/{key}/incr
// @Summary Increment a counter
// @Tags Cache
// @Accept json
// @Produce json
// @Param key path string true "Key"
// @Param request body dto.AdjustRequest false "Amount, default 1"
// @Success 200 {object} dto.CounterResponse
// @Router /api/v1/cache-service/keys/{key}/incr [post]
func (h *CacheHandler) Increment(c *gin.Context) {
	h.adjust(c, h.cacheService.IncrBy)
}

// Decrement handles POST /keys/{key}/decr
// @Summary Decrement a counter
// @Tags Cache
// @Accept json
// @Produce json
// @Param key path string true "Key"
// @Param request body dto.AdjustRequest false "Amount, default 1"
// @Success 200 {object} dto.CounterResponse
// @Router /api/v1/cache-service/keys/{key}/decr [post]
func (h *CacheHandler) Decrement(c *gin.Context) {
	h.adjust(c, h.cacheService.DecrBy)
}

type adjustFunc func(ctx context.Context, key string, amount int64) (cache.Result[int64], error)

func (h *CacheHandler) adjust(c *gin.Context, fn adjustFunc) {
	amount := int64(1)
	if c.Request.ContentLength > 0 {
		var req dto.AdjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
		if req.Amount != nil {
			amount = *req.Amount
		}
	}

	key := c.Param("key")
	res, err := fn(c.Request.Context(), key, amount)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CounterResponse{
		Key:      key,
		Value:    res.Value,
		Disabled: res.IsDisabled(),
	})
}

// Expire handles POST /keys/{key}/expire
// @Summary Set a key's TTL
// @Tags Cache
// @Accept json
// @Produce json
// @Param key path string true "Key"
// @Param request body dto.ExpireRequest true "TTL in seconds"
// @Success 200 {object} dto.AckResponse
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Router /api/v1/cache-service/keys/{key}/expire [post]
func (h *CacheHandler) Expire(c *gin.Context) {
	var req dto.ExpireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	key := c.Param("key")
	res, err := h.cacheService.Expire(c.Request.Context(), key, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if res.Status == cache.StatusNotFound {
		middleware.HandleError(c, errors.NewNotFoundError("key", key))
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{OK: res.Value, Disabled: res.IsDisabled()})
}

// FlushDatabase handles POST /database/flush
// @Summary Flush the selected database
// @Tags Database
// @Produce json
// @Param async query bool false "Flush asynchronously" default(false)
// @Success 200 {object} dto.AckResponse
// @Router /api/v1/cache-service/database/flush [post]
func (h *CacheHandler) FlushDatabase(c *gin.Context) {
	async, err := boolQuery(c, "async", false)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	res, err := h.cacheService.FlushDatabase(c.Request.Context(), async)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	logger := middleware.GetRequestLogger(c)
	logger.Info().Bool("async", async).Msg("database flushed")

	c.JSON(http.StatusOK, dto.AckResponse{OK: res.Value, Disabled: res.IsDisabled()})
}

// UseDatabase handles PUT /database
// @Summary Switch the database of the live connection
// @Tags Database
// @Accept json
// @Produce json
// @Param request body dto.UseDatabaseRequest true "Database index"
// @Success 200 {object} dto.AckResponse
// @Failure 400 {object} dto.ErrorResponse "Bad request - validation error"
// @Router /api/v1/cache-service/database [put]
func (h *CacheHandler) UseDatabase(c *gin.Context) {
	var req dto.UseDatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	res, err := h.cacheService.UseDatabase(c.Request.Context(), *req.Database)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{OK: res.Value, Disabled: res.IsDisabled()})
}

// LastError handles GET /last-error
// @Summary Last server error
// @Tags Cache
// @Produce json
// @Success 200 {object} dto.LastErrorResponse
// @Router /api/v1/cache-service/last-error [get]
func (h *CacheHandler) LastError(c *gin.Context) {
	res, err := h.cacheService.LastError(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LastErrorResponse{Error: res.Value, Disabled: res.IsDisabled()})
}

// Enable handles POST /enable
// @Summary Enable the cache client
// @Tags Cache
// @Produce json
// @Success 200 {object} dto.AckResponse
// @Router /api/v1/cache-service/enable [post]
func (h *CacheHandler) Enable(c *gin.Context) {
	h.cacheService.Enable()
	c.JSON(http.StatusOK, dto.AckResponse{OK: true})
}

// Disable handles POST /disable
// @Summary Disable the cache client
// @Description Closes the connection and turns every operation into a no-op
// @Tags Cache
// @Produce json
// @Success 200 {object} dto.AckResponse
// @Router /api/v1/cache-service/disable [post]
func (h *CacheHandler) Disable(c *gin.Context) {
	if err := h.cacheService.Disable(); err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to close cache connection", err))
		return
	}
	logger := middleware.GetRequestLogger(c)
	logger.Info().Msg("cache client disabled")
	c.JSON(http.StatusOK, dto.AckResponse{OK: true, Disabled: true})
}
