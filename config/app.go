package config

import (
	"os"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool
	// DefaultLocation is stamped on opening batches created without an
	// explicit storage location.
	DefaultLocation string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName:         os.Getenv("APP_NAME"),
			Port:            os.Getenv("PORT"),
			Env:             os.Getenv("APP_ENV"),
			Debug:           os.Getenv("DEBUG") == "true",
			DefaultLocation: GetEnv("DEFAULT_LOCATION", "MAIN-YARD"),
		}
	})
}
