package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rixeldev/studio-api/utils"
)

// ContextUsernameKey stores the authenticated admin username inside Gin context.
const ContextUsernameKey = "admin_username"

// AdminSession identifies an authenticated admin request.
type AdminSession struct {
	Username string
}

// GetAdminSession verifies the signed session cookie. It returns nil on any
// failure (missing cookie, bad signature, expiry) and never raises; callers
// treat nil as unauthenticated.
func GetAdminSession(ctx *gin.Context) *AdminSession {
	token, err := ctx.Cookie(utils.SessionCookieName)
	if err != nil || token == "" {
		return nil
	}

	claims, err := utils.ParseSessionToken(token)
	if err != nil {
		return nil
	}
	return &AdminSession{Username: claims.Username}
}

// AdminRequired gates admin-only routes behind the session cookie.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session := GetAdminSession(ctx)
		if session == nil {
			utils.Message(ctx, http.StatusUnauthorized, "Unauthorized")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUsernameKey, session.Username)
		ctx.Next()
	}
}
