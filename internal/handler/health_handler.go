package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health 是存活探针。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
