package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-cms/internal/storage"
)

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

func (h *Handler) listBackups(c *gin.Context) {
	if h.objects == nil || h.bucket == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot mirror not configured"})
		return
	}

	objects, err := h.objects.ListObjects(c.Request.Context(), h.bucket, h.keyPrefix)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
