package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rixeldev/studio-api/config"
	"github.com/rixeldev/studio-api/middleware"
	"github.com/rixeldev/studio-api/utils"
)

// AdminController handles login, logout and session introspection for the
// single configured admin account.
type AdminController struct{}

func NewAdminController() *AdminController {
	return &AdminController{}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login compares the submitted credentials against the static configured
// admin account and sets the signed session cookie on success.
func (a *AdminController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "Username and password are required.")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		utils.Message(ctx, http.StatusBadRequest, "Username and password are required.")
		return
	}

	cfg := config.Get()
	if !credentialsMatch(cfg, username, req.Password) {
		utils.Message(ctx, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := utils.GenerateSessionToken(username)
	if err != nil {
		utils.Sugar.Errorf("failed to sign session token: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	setSessionCookie(ctx, token, int(utils.SessionDuration.Seconds()))
	ctx.JSON(http.StatusOK, gin.H{"username": username})
}

// Logout clears the session cookie.
func (a *AdminController) Logout(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)
	ctx.Status(http.StatusNoContent)
}

// Session reports the authenticated admin, or 401 when the cookie is absent
// or invalid.
func (a *AdminController) Session(ctx *gin.Context) {
	session := middleware.GetAdminSession(ctx)
	if session == nil {
		utils.Message(ctx, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"username": session.Username})
}

func credentialsMatch(cfg config.AppConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1

	var passOK bool
	if cfg.AdminPasswordHash != "" {
		passOK = utils.CheckPassword(cfg.AdminPasswordHash, password)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	}
	return userOK && passOK
}

func setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(utils.SessionCookieName, token, maxAge, "/", "", cfg.CookieSecure, true)
}
