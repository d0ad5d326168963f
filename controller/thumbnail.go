package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"coursehub/logger"
	"coursehub/models"
	"coursehub/storage"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

type ThumbnailUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type ThumbnailController struct {
	log      *logger.Logger
	store    CourseStore
	uploader ThumbnailUploader
	timeout  time.Duration
	now      func() time.Time
}

func NewThumbnailController(log *logger.Logger, store CourseStore, uploader ThumbnailUploader, timeout time.Duration) *ThumbnailController {
	return &ThumbnailController{
		log:      log.With("controller", "thumbnails"),
		store:    store,
		uploader: uploader,
		timeout:  timeout,
		now:      time.Now,
	}
}

// UploadThumbnail stores the multipart "image" file and points the course's
// thumbnail and image at it.
func (h *ThumbnailController) UploadThumbnail(c *gin.Context) {
	id, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.log, invalidPayload(errors.New("no image file provided")))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if _, err := h.store.Get(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	fileContent, err := file.Open()
	if err != nil {
		respondError(c, h.log, invalidPayload(err))
		return
	}
	defer fileContent.Close()

	key := storage.ThumbnailKey(id.Hex(), file.Filename)
	url, err := h.uploader.Upload(ctx, key, fileContent, file.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.log, utils.NewAPIError(http.StatusBadGateway, "upload_failed", err))
		return
	}

	update := models.CourseUpdate{Thumbnail: &url}
	if _, err := h.store.Update(ctx, id, update.SetDocument(utils.DateStamp(h.now()))); err != nil {
		respondError(c, h.log, err)
		return
	}

	course, err := h.store.Get(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("thumbnail uploaded", "course_id", id.Hex(), "key", key)
	c.JSON(http.StatusOK, course)
}
