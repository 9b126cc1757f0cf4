package app

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read for stats credentials.
const (
	EnvS3AccessKey = "TASKGEN_S3_ACCESS_KEY"
	EnvS3SecretKey = "TASKGEN_S3_SECRET_KEY"
	EnvS3Endpoint  = "TASKGEN_S3_ENDPOINT"
)

// Env is the part of the process environment a run depends on.
type Env struct {
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// LoadEnv loads path into the process environment, without overriding
// variables that are already set, and reads the run's variables. A missing
// file is not an error.
func LoadEnv(path string) (Env, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}
	return Env{
		S3AccessKey: strings.TrimSpace(os.Getenv(EnvS3AccessKey)),
		S3SecretKey: strings.TrimSpace(os.Getenv(EnvS3SecretKey)),
		S3Endpoint:  strings.TrimSpace(os.Getenv(EnvS3Endpoint)),
	}, nil
}
