package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rixeldev/studio-api/config"
)

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "studio-api-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("ADMIN_SESSION_SECRET", "test-session-secret")
	os.Setenv("PIN_HASH_SECRET", "test-pin-secret")
	os.Setenv("ADMIN_USERNAME", "admin")
	os.Setenv("ADMIN_PASSWORD", "admin-password")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("LOG_PATH", filepath.Join(tmp, "app.log"))

	cfg := config.Load()
	if err := InitLogger(cfg); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}
