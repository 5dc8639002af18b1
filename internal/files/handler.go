// Package files handles image upload, serving and deletion against the
// object store, with a redis read-through cache for pre-signed URLs.
package files

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/pkg/redis"
	"github.com/galereya/backend/pkg/response"
	"github.com/galereya/backend/pkg/storage"
)

// Handler handles file HTTP endpoints.
type Handler struct {
	store  *storage.Client
	cache  *redis.Client
	logger *zap.Logger
}

// NewHandler creates a files handler.
func NewHandler(store *storage.Client, cache *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{store: store, cache: cache, logger: logger}
}

func urlCacheKey(objectKey string) string {
	return "files:url:" + objectKey
}

// Upload handles POST /files/upload. Accepts one image under the "file" form
// field, stores it under a fresh uuid key and returns the key with a
// pre-signed URL.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if file.Size > storage.MaxUploadSize {
		response.BadRequest(c, "file exceeds the 10MB limit")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, file.Filename) {
		response.BadRequest(c, "only jpeg, png, webp and gif images are allowed")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer src.Close()

	ext := strings.ToLower(path.Ext(file.Filename))
	key := uuid.New().String() + ext
	ctx := c.Request.Context()
	if err := h.store.Upload(ctx, key, contentType, src, file.Size); err != nil {
		h.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		response.Internal(c, "failed to store file")
		return
	}

	url, err := h.presignedURL(c, key)
	if err != nil {
		h.logger.Error("presign failed", zap.String("key", key), zap.Error(err))
		response.Internal(c, "failed to sign file url")
		return
	}

	h.logger.Info("file uploaded", zap.String("key", key), zap.Int64("size", file.Size))
	response.Created(c, gin.H{"key": key, "url": url})
}

// Serve handles GET /files/:key, streaming the object body.
func (h *Handler) Serve(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		response.BadRequest(c, "invalid file key")
		return
	}
	body, contentType, err := h.store.GetObjectStream(c.Request.Context(), key)
	if err != nil {
		response.NotFound(c, "file not found")
		return
	}
	defer body.Close()
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(key)
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("file stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

// SignedURL handles GET /files/:key/url, returning a pre-signed URL.
func (h *Handler) SignedURL(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		response.BadRequest(c, "invalid file key")
		return
	}
	url, err := h.presignedURL(c, key)
	if err != nil {
		response.Internal(c, "failed to sign file url")
		return
	}
	response.OK(c, gin.H{"key": key, "url": url})
}

// Delete handles DELETE /files/:key.
func (h *Handler) Delete(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		response.BadRequest(c, "invalid file key")
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, key); err != nil {
		h.logger.Error("delete failed", zap.String("key", key), zap.Error(err))
		response.Internal(c, "failed to delete file")
		return
	}
	if h.cache != nil {
		h.cache.Del(ctx, urlCacheKey(key))
	}
	response.NoContent(c)
}

// presignedURL returns a signed URL for key, cached in redis for slightly
// less than the signature lifetime so a cached URL never outlives it.
func (h *Handler) presignedURL(c *gin.Context, key string) (string, error) {
	ctx := c.Request.Context()
	if h.cache != nil {
		if url := h.cache.GetCached(ctx, urlCacheKey(key)); url != "" {
			return url, nil
		}
	}
	expire := h.store.PresignExpire()
	url, err := h.store.PresignedGetURL(ctx, key, expire)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	if h.cache != nil {
		ttl := expire - time.Minute
		if ttl > 0 {
			h.cache.SetCached(ctx, urlCacheKey(key), url, ttl)
		}
	}
	return url, nil
}
