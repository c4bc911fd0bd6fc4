package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"portfolioPro/internal/database"
	"portfolioPro/internal/resource"
	"portfolioPro/internal/storage"
)

// ObjectStore is the slice of the storage client the media handler needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

var _ ObjectStore = (*storage.Client)(nil)

// MediaHandler handles binary uploads plus the metadata rows that describe
// them. The binary lives in object storage; everything list/get/update-shaped
// goes through the generic resource service.
type MediaHandler struct {
	Service        *resource.MediaItemService
	Storage        ObjectStore
	Logger         *slog.Logger
	ClamdAddr      string
	MaxUploadBytes int64
}

func NewMediaHandler(svc *resource.MediaItemService, storageClient ObjectStore, logger *slog.Logger, clamdAddr string, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{
		Service:        svc,
		Storage:        storageClient,
		Logger:         logger,
		ClamdAddr:      clamdAddr,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *MediaHandler) Register(owned, public *gin.RouterGroup) {
	owned.POST("/media", h.Upload)
	owned.GET("/media", h.ListMine)
	owned.GET("/media/:id", h.GetMine)
	owned.GET("/media/:id/url", h.PresignedURL)
	owned.PATCH("/media/:id", h.Update)
	owned.DELETE("/media/:id", h.Delete)

	public.GET("/users/:userID/media", h.ListByUser)
}

// Upload scans the file when a clamd address is configured, stores it under a
// server-generated object key, then records the metadata row.
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		BadRequest(c, "file too large")
		return
	}

	if h.ClamdAddr != "" {
		clean, err := h.scan(file)
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("user-media/%s/%s", userID, uuid.NewString())
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	item := &database.MediaItem{
		MediaType:  c.PostForm("media_type"),
		ObjectKey:  objectKey,
		IsFeatured: c.PostForm("is_featured") == "true",
	}
	if item.MediaType == "" {
		item.MediaType = "image"
	}
	if title := c.PostForm("title"); title != "" {
		item.Title = &title
	}
	if description := c.PostForm("description"); description != "" {
		item.Description = &description
	}

	created, err := h.Service.Create(c.Request.Context(), userID, item)
	if err != nil {
		// Keep storage consistent with the metadata table.
		if delErr := h.Storage.DeleteObject(c.Request.Context(), objectKey); delErr != nil {
			h.Logger.Error("rollback upload", slog.String("objectKey", objectKey), slog.String("error", delErr.Error()))
		}
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *MediaHandler) scan(file *multipart.FileHeader) (bool, error) {
	fileReader, err := file.Open()
	if err != nil {
		return false, err
	}

	clamdClient := clamd.NewClamd(h.ClamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		return false, err
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

func (h *MediaHandler) ListMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	page, err := h.Service.ListOwned(c.Request.Context(), userID, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MediaHandler) ListByUser(c *gin.Context) {
	targetID, ok := idParam(c, "userID")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}

	page, err := h.Service.ListByUser(c.Request.Context(), targetID, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MediaHandler) GetMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	item, err := h.Service.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PresignedURL returns a short-lived download URL for an owned media item.
func (h *MediaHandler) PresignedURL(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	item, err := h.Service.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), item.ObjectKey, 10*time.Minute)
	if err != nil {
		h.Logger.Error("generate media url", slog.String("objectKey", item.ObjectKey), slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in_seconds": 600})
}

type updateMediaItemRequest struct {
	MediaType   *string `json:"media_type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFeatured  *bool   `json:"is_featured"`
}

func (h *MediaHandler) Update(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	var req updateMediaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updates := map[string]any{}
	if req.MediaType != nil {
		updates["media_type"] = *req.MediaType
	}
	if req.Title != nil {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	item, err := h.Service.Update(c.Request.Context(), id, userID, updates)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes the metadata row first, then the stored object. A storage
// failure after the row is gone is logged, not surfaced.
func (h *MediaHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	item, err := h.Service.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, userID); err != nil {
		RespondError(c, err)
		return
	}
	if err := h.Storage.DeleteObject(c.Request.Context(), item.ObjectKey); err != nil {
		h.Logger.Error("delete object", slog.String("objectKey", item.ObjectKey), slog.String("error", err.Error()))
	}
	c.Status(http.StatusNoContent)
}
