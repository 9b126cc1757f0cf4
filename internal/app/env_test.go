package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnv_ReadsFileWithoutOverriding(t *testing.T) {
	unsetEnv(t, EnvS3AccessKey)
	unsetEnv(t, EnvS3SecretKey)
	t.Setenv(EnvS3Endpoint, "from-process:9000")

	path := writeFile(t, t.TempDir(), ".env", EnvS3AccessKey+"=AKIA\n"+
		EnvS3SecretKey+"=\"  s3cr3t  \"\n"+
		EnvS3Endpoint+"=from-file:9000\n")

	env, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, Env{
		S3AccessKey: "AKIA",
		S3SecretKey: "s3cr3t",
		S3Endpoint:  "from-process:9000",
	}, env)
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	unsetEnv(t, EnvS3AccessKey)
	unsetEnv(t, EnvS3SecretKey)
	unsetEnv(t, EnvS3Endpoint)

	env, err := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Env{}, env)
}
