package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/middlewares"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// SignUp -> registrasi customer baru
func (ac *AuthController) SignUp(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	profile, err := ac.Auth.SignUp(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Account created", profile)
}

// Login -> menghasilkan token JWT
func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	token, sess, err := ac.Auth.SignIn(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"user_id":    sess.UserID,
		"role":       sess.Role,
		"expires_at": sess.ExpiresAt,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.Auth.SignOut(middlewares.CurrentToken(c))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Me returns the current session.
func (ac *AuthController) Me(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Current session", session(c))
}
