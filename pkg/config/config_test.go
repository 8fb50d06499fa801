package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"platereader/pkg/plate"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_DSN", "JWT_SECRET", "HTTP_ADDR", "PLATE_LANG", "PLATE_PROFILE", "PLATE_GPU", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, "eng", c.Language)
	assert.Equal(t, plate.ProfileGeneric, c.Profile)
	assert.True(t, c.GPU)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PLATE_PROFILE", "indian")
	t.Setenv("PLATE_GPU", "off")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DB_DSN", "postgres://plates@localhost/plates")
	c := Load()
	assert.Equal(t, "postgres://plates@localhost/plates", c.DBDSN)
	assert.Equal(t, plate.ProfileIndian, c.Profile)
	assert.False(t, c.GPU)
	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, plate.Config{Profile: plate.ProfileIndian, Language: c.Language, GPU: false}, c.PlateConfig())

	t.Setenv("PLATE_PROFILE", "martian")
	t.Setenv("PLATE_GPU", "maybe")
	c = Load()
	assert.Equal(t, plate.ProfileGeneric, c.Profile)
	assert.True(t, c.GPU)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	f := filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(f, []byte("# comment\nPLATE_LANG=deu\nHTTP_ADDR=:7000\n"), 0o644))
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("PLATE_LANG", "")
	os.Unsetenv("PLATE_LANG")

	LoadDotEnv(f, filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "deu", os.Getenv("PLATE_LANG"))
	assert.Equal(t, ":9999", os.Getenv("HTTP_ADDR"))
	os.Unsetenv("PLATE_LANG")
}
