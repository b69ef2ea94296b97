package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping answers GET /ping with an empty JSON object.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}
