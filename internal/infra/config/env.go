package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/runoshun/kanban/internal/domain"
)

const namespace = "KANBAN"

// Env holds KANBAN_* overrides. Unset variables leave the file value in place.
type Env struct {
	HistoryCapacity *int     `envconfig:"HISTORY_CAPACITY"`
	HTTPPort        *int     `envconfig:"HTTP_PORT"`
	HTTPCORS        []string `envconfig:"HTTP_CORS"`
	StoreBackend    string   `envconfig:"STORE_BACKEND"`
	StoreBlob       string   `envconfig:"STORE_BLOB"`
	StorePath       string   `envconfig:"STORE_PATH"`
	StoreNamespace  string   `envconfig:"STORE_NAMESPACE"`
	StoreRepo       string   `envconfig:"STORE_REPO"`
	S3Bucket        string   `envconfig:"S3_BUCKET"`
	S3Prefix        string   `envconfig:"S3_PREFIX"`
	S3Region        string   `envconfig:"S3_REGION"`
	HTTPHost        string   `envconfig:"HTTP_HOST"`
	Schedule        string   `envconfig:"SNAPSHOT_SCHEDULE"`
	LogLevel        string   `envconfig:"LOG_LEVEL"`
}

// LoadEnv reads KANBAN_* variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *Env) apply(cfg *domain.Config) {
	setString(&cfg.Store.Backend, e.StoreBackend)
	setString(&cfg.Store.Blob, e.StoreBlob)
	setString(&cfg.Store.Path, e.StorePath)
	setString(&cfg.Store.Namespace, e.StoreNamespace)
	setString(&cfg.Store.Repo, e.StoreRepo)
	setString(&cfg.Store.S3.Bucket, e.S3Bucket)
	setString(&cfg.Store.S3.Prefix, e.S3Prefix)
	setString(&cfg.Store.S3.Region, e.S3Region)
	setString(&cfg.HTTP.Host, e.HTTPHost)
	setString(&cfg.Snapshot.Schedule, e.Schedule)
	setString(&cfg.Log.Level, e.LogLevel)
	if e.HTTPPort != nil {
		cfg.HTTP.Port = *e.HTTPPort
	}
	if e.HistoryCapacity != nil {
		cfg.History.Capacity = *e.HistoryCapacity
	}
	if len(e.HTTPCORS) > 0 {
		cfg.HTTP.CORS = e.HTTPCORS
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
