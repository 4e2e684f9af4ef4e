package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	DB     DBConfig
	Blob   BlobConfig
	MinIO  MinIOConfig
	SMTP   SMTPConfig
	Reset  ResetConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Port        string
	PublicURL   string
	PublicDir   string
	BodyLimitMB int
	CORSOrigins string
}

// StoreConfig selects where user records live: json, sqlite, postgres or memory.
type StoreConfig struct {
	Backend string
	Path    string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// BlobConfig selects where uploaded bytes live: disk or minio.
type BlobConfig struct {
	Backend    string
	UploadsDir string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host       string
	User       string
	Password   string
	From       string
	CertPath   string
	SkipVerify bool
}

type ResetConfig struct {
	TokenTTL  time.Duration
	QueueSize int
}

type AuthConfig struct {
	HashPasswords bool
}

func Load() *Config {
	port := getEnv("SERVER_PORT", "3000")
	return &Config{
		Server: ServerConfig{
			Port:        port,
			PublicURL:   getEnv("PUBLIC_URL", "http://localhost:"+port),
			PublicDir:   getEnv("PUBLIC_DIR", "public"),
			BodyLimitMB: getEnvAsInt("BODY_LIMIT_MB", 100),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "json"),
			Path:    getEnv("STORE_PATH", "users.json"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "filehost"),
			Password: getEnv("DB_PASSWORD", "filehost_secret"),
			Name:     getEnv("DB_NAME", "filehost"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Blob: BlobConfig{
			Backend:    getEnv("BLOB_BACKEND", "disk"),
			UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "filehost"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "filehost_secret"),
			Bucket:    getEnv("MINIO_BUCKET", "uploads"),
			Region:    getEnv("MINIO_REGION", ""),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			User:       getEnv("SMTP_USER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("MAIL_FROM", "filehost <noreply@filehost.local>"),
			CertPath:   getEnv("SMTP_CERT_PATH", ""),
			SkipVerify: getEnvAsBool("SMTP_SKIP_VERIFY", false),
		},
		Reset: ResetConfig{
			TokenTTL:  getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
			QueueSize: getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
		},
		Auth: AuthConfig{
			HashPasswords: getEnvAsBool("PASSWORD_HASHING", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
