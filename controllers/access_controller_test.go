package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAccessRejectsThrottledIP(t *testing.T) {
	controller := &AccessController{
		allowAttempt:  func(string) bool { return false },
		recordFailure: func(string) {},
	}

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/gallery/access", strings.NewReader(`{"pin":"123456"}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	controller.Access(ctx)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Too many attempts. Try again later."}`, w.Body.String())
}
