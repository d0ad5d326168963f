package controller

import (
	"net/http"

	"coursehub/logger"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, log *logger.Logger, err error) {
	apiErr := utils.AsAPIError(err)

	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		log.Error("request failed", "path", path, "code", apiErr.Code, "error", err)
		if apiErr.Code == "store_error" {
			msg = "internal server error"
		}
	} else {
		log.Debug("request rejected", "path", path, "code", apiErr.Code, "error", err)
	}
	c.AbortWithStatusJSON(apiErr.Status, utils.Envelope(apiErr.Code, msg))
}

func invalidPayload(err error) *utils.APIError {
	return utils.NewAPIError(http.StatusBadRequest, "invalid_payload", err)
}
