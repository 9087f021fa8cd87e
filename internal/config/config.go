package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads a .env file from the working directory or its parent into
// the process environment, once. Existing variables are not overridden.
// It returns the file loaded, or "" when none was found.
func LoadEnv() (loaded string, err error) {
	once.Do(func() {
		loaded, err = loadEnvFile(".env", filepath.Join("..", ".env"))
	})
	return loaded, err
}

func loadEnvFile(candidates ...string) (string, error) {
	for _, f := range candidates {
		if _, statErr := os.Stat(f); statErr != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return "", err
		}
		return f, nil
	}
	return "", nil
}
