package handler

import (
	"errors"
	"net/http"

	"algotutor-go/internal/service"
	"algotutor-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// UserHandler 负责处理所有与用户记录相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 处理用户注册请求。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// 绑定并验证 JSON 请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		badRequest(c, "Invalid user data", err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			log.Warnf("Register: username '%s' already exists", req.Username)
			c.JSON(http.StatusConflict, gin.H{"message": "Username already exists"})
		case errors.Is(err, service.ErrInvalidInput):
			badRequest(c, "Invalid user data", err)
		default:
			internalError(c, "Failed to create user", err)
		}
		return
	}

	log.Infof("User '%s' registered successfully", user.Username)
	c.JSON(http.StatusCreated, user)
}

// GetUser 根据 ID 返回用户记录，密码哈希不会出现在响应中。
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		badRequest(c, "Invalid user ID", err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			notFound(c, "User not found")
			return
		}
		internalError(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
