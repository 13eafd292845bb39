// Package config loads application settings from environment variables.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds all service-level settings. Database connection settings are
// read separately by the database package.
type App struct {
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Store backend: postgres, rest, or memory.
	StoreBackend string `envconfig:"STORE_BACKEND" default:"postgres"`
	// Base URL of the REST record store, used when StoreBackend is "rest".
	RecordStoreURL string `envconfig:"RECORD_STORE_URL" default:"http://localhost:3001"`

	// Identity assumed when a request carries no userId.
	DefaultUserID string `envconfig:"DEFAULT_USER_ID" default:"user1"`
}

// Load reads the App config from the environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
