package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"apparel-catalog/internal/auth"
	"apparel-catalog/internal/models"
)

// Accounts is one credential namespace.
type Accounts interface {
	Namespace() models.Namespace
	Register(ctx context.Context, name, email, password string) (*models.Credential, error)
	Authenticate(ctx context.Context, email, password string) (*models.Credential, error)
}

type AuthHandler struct {
	users  Accounts
	admins Accounts
	tokens *auth.TokenIssuer
}

func NewAuthHandler(users, admins Accounts, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, admins: admins, tokens: tokens}
}

type userSignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type adminSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// POST /auth/user-signup
func (h *AuthHandler) UserSignup(c *gin.Context) {
	var req userSignupRequest
	if !bindJSON(c, &req, "All fields are required") {
		return
	}
	if req.Password != req.ConfirmPassword {
		badRequest(c, "Passwords do not match")
		return
	}
	h.register(c, h.users, req.Name, req.Email, req.Password, "User registered successfully")
}

// POST /admin-signup
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req adminSignupRequest
	if !bindJSON(c, &req, "All fields are required") {
		return
	}
	h.register(c, h.admins, req.Name, req.Email, req.Password, "Admin registered successfully")
}

// POST /login/login
func (h *AuthHandler) UserLogin(c *gin.Context) {
	h.login(c, h.users, "Login successful")
}

// POST /admin-login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.admins, "Admin login successful")
}

func (h *AuthHandler) register(c *gin.Context, accounts Accounts, name, email, password, msg string) {
	cred, err := accounts.Register(c.Request.Context(), name, email, password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SignupResponse{Message: msg, ID: cred.ID})
}

func (h *AuthHandler) login(c *gin.Context, accounts Accounts, msg string) {
	var req loginRequest
	if !bindJSON(c, &req, "Email and password are required") {
		return
	}
	cred, err := accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, _, err := h.tokens.Issue(cred.ID, cred.Email, accounts.Namespace().Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Message: msg, Token: token})
}

// bindJSON writes the 400 itself and reports false when the body does not
// bind. A missing field yields missingMsg and a malformed email its own
// message.
func bindJSON(c *gin.Context, dst any, missingMsg string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		badRequest(c, "Invalid JSON format")
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			badRequest(c, missingMsg)
			return false
		}
	}
	badRequest(c, "Invalid email address")
	return false
}
