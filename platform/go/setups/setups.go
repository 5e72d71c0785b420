package setups

import (
	"github.com/caarlos0/env/v11"
)

const (
	CredentialsPathEnv = "FIREBASE_CONFIG"
	ProjectEnv         = "GCLOUD_PROJECT"
)

// Firebase carries the process-wide settings used to build the Firebase app.
// CredentialsPath is nil when the service should rely on application default credentials.
type Firebase struct {
	CredentialsPath *string `env:"FIREBASE_CONFIG"`
	ProjectID       string  `env:"GCLOUD_PROJECT"`
}

// FirebaseFromEnv reads the Firebase settings from the environment.
func FirebaseFromEnv() (Firebase, error) {
	var cfg Firebase
	if err := env.Parse(&cfg); err != nil {
		return Firebase{}, err
	}
	if cfg.CredentialsPath != nil && *cfg.CredentialsPath == "" {
		cfg.CredentialsPath = nil
	}
	return cfg, nil
}
