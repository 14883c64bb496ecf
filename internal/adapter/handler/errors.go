package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind == domain.KindInternal {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := derr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(derr.Message)
	}

	c.JSON(status, gin.H{"error": derr.Message})
}
