package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"docutrack/internal/app"
	"docutrack/internal/model"
	"docutrack/internal/transport/http/middleware"
	"docutrack/internal/transport/http/response"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Role            string `json:"role" binding:"required"`
	Organization    string `json:"organization"`
	Department      string `json:"department"`
}

type userView struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
	Department   string `json:"department,omitempty"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		Organization: u.Organization,
		Department:   u.Department,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}
	if req.Password != req.ConfirmPassword {
		response.Error(c, 400, response.CodeBadRequest, "passwords do not match")
		return
	}

	result, err := h.auth.Register(app.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.Role(req.Role),
		Organization: req.Organization,
		Department:   req.Department,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, 409, response.CodeEmailExists, "email already registered")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, 400, response.CodeBadRequest, "invalid registration input")
		default:
			response.Error(c, 500, response.CodeInternalServer, "register failed")
		}
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, 401, response.CodeInvalidCredentials, "invalid email or password")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, 400, response.CodeBadRequest, "invalid login input")
		default:
			response.Error(c, 500, response.CodeInternalServer, "login failed")
		}
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user":  toUserView(result.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		response.Error(c, 401, response.CodeUnauthorized, "user not found in token")
		return
	}
	userID, ok := raw.(uint)
	if !ok {
		response.Error(c, 401, response.CodeUnauthorized, "invalid token payload")
		return
	}

	user, err := h.auth.GetUserByID(userID)
	if err != nil {
		response.Error(c, 500, response.CodeInternalServer, "load user failed")
		return
	}
	if user == nil {
		response.Error(c, 401, response.CodeUnauthorized, "account no longer exists")
		return
	}

	response.OK(c, toUserView(user))
}
