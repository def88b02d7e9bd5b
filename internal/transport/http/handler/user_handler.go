package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/domain"
	"user-account-api/internal/service"
	resp "user-account-api/internal/transport/http/response"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, l *zap.Logger) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: l}
}

// UserBody 创建/编辑共用的请求体；password 永远不从调用方接收
type UserBody struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (b UserBody) input() service.UserInput {
	return service.UserInput{
		Email:     b.Email,
		Username:  b.Username,
		FirstName: b.FirstName,
		LastName:  b.LastName,
	}
}

// POST /users/new
func (h *UserHandler) Create(c *gin.Context) {
	var body UserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, resp.Fail(resp.TagValidationError))
		return
	}
	u, err := h.svc.Create(c.Request.Context(), body.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.OK(u.Public()))
}

// POST /users/edit/:userId
func (h *UserHandler) Edit(c *gin.Context) {
	// 非数字 id 等同于查无此行
	id, perr := strconv.ParseUint(c.Param("userId"), 10, 64)

	var body UserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, resp.Fail(resp.TagValidationError))
		return
	}
	if perr != nil {
		// 先过非空校验再报 404，与校验优先的顺序保持一致
		if in := body.input(); in.Email == "" || in.Username == "" || in.FirstName == "" || in.LastName == "" {
			c.JSON(http.StatusBadRequest, resp.Fail(resp.TagValidationError))
			return
		}
		c.JSON(http.StatusNotFound, resp.Fail(resp.TagUserNotFound))
		return
	}

	u, err := h.svc.Edit(c.Request.Context(), uint(id), body.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(u.Public()))
}

// GET /users?email=...
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	u, err := h.svc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(u))
}

// fail 业务错误 → {status, tag}；未知错误一律 500 ServerError
func (h *UserHandler) fail(c *gin.Context, err error) {
	var tag string
	switch {
	case errors.Is(err, domain.ErrValidation):
		tag = resp.TagValidationError
	case errors.Is(err, domain.ErrEmailInUse):
		tag = resp.TagEmailAlreadyInUse
	case errors.Is(err, domain.ErrUsernameTaken):
		tag = resp.TagUsernameAlreadyTaken
	case errors.Is(err, domain.ErrUserNotFound):
		tag = resp.TagUserNotFound
	default:
		tag = resp.TagServerError
		h.log.Error("unhandled", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(resp.StatusOf(tag), resp.Fail(tag))
}
