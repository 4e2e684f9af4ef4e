package store

import "github.com/filehost/filehost/internal/config"

func configFor(backend, path string) (config.StoreConfig, config.DBConfig) {
	return config.StoreConfig{Backend: backend, Path: path}, config.DBConfig{}
}
