package handler

import (
	"net/http"

	"algotutor-go/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 提供学习主题与编程语言列表。
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler 创建一个新的 CatalogHandler。
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Topics(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Topics())
}

func (h *CatalogHandler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Languages())
}

// TopicPrompt 返回子主题的起始问题，客户端点击主题时直接作为第一条消息发送。
func (h *CatalogHandler) TopicPrompt(c *gin.Context) {
	prompt, ok := h.catalog.TopicPrompt(c.Param("topicId"), c.Param("subtopicId"))
	if !ok {
		notFound(c, "Topic not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}
