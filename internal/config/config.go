package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendFS = "fs"
	BackendS3 = "s3"

	redactedMark = "[redacted]"
)

type Config struct {
	ListenAddr string         `yaml:"listen_addr" json:"listen_addr"`
	MetaDSN    string         `yaml:"meta_dsn" json:"meta_dsn"`
	FlashTTL   time.Duration  `yaml:"flash_ttl" json:"flash_ttl"`
	Storage    StorageConfig  `yaml:"storage" json:"storage"`
	Notifier   NotifierConfig `yaml:"notifier" json:"notifier"`
	GC         GCConfig       `yaml:"gc" json:"gc"`
	Log        LogConfig      `yaml:"log" json:"log"`
}

type StorageConfig struct {
	Backend  string   `yaml:"backend" json:"backend"`
	Location string   `yaml:"location" json:"location"`
	S3       S3Config `yaml:"s3" json:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket" json:"bucket"`
	Region    string `yaml:"region" json:"region"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"-"`
	Prefix    string `yaml:"prefix" json:"prefix"`
}

// NotifierConfig — команда, которой после загрузки передаётся корень хранилища последним аргументом.
type NotifierConfig struct {
	Command []string `yaml:"command" json:"command"`
}

// GCConfig управляет очисткой брошенных временных файлов загрузки.
type GCConfig struct {
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Interval time.Duration `yaml:"interval" json:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default возвращает конфигурацию, совместимую с исходным развёртыванием (./upload-dir, python-скрипт).
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		MetaDSN:    "memory://",
		FlashTTL:   time.Minute,
		Storage: StorageConfig{
			Backend:  BackendFS,
			Location: "./upload-dir",
		},
		Notifier: NotifierConfig{
			Command: []string{"python3", "./utils/PythonScript.py"},
		},
		GC: GCConfig{
			TTL:      24 * time.Hour,
			Interval: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load читает YAML-конфигурацию поверх дефолтов, применяет ENV-переопределения и возвращает актуальную структуру.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// работаем на дефолтах
	default:
		return nil, err
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("META_DSN"); v != "" {
		c.MetaDSN = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STORAGE_LOCATION"); v != "" {
		c.Storage.Location = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.Storage.S3.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		c.Storage.S3.Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.Storage.S3.SecretKey = v
	}
	if v, ok := os.LookupEnv("NOTIFIER_COMMAND"); ok {
		c.Notifier.Command = strings.Fields(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Redacted возвращает копию для отдачи наружу: без паролей в DSN и с замаскированным access key.
func (c *Config) Redacted() *Config {
	out := *c
	out.Notifier.Command = append([]string(nil), c.Notifier.Command...)
	out.MetaDSN = redactURL(c.MetaDSN)
	out.Storage.S3.Endpoint = redactURL(c.Storage.S3.Endpoint)
	out.Storage.S3.AccessKey = maskKey(c.Storage.S3.AccessKey)
	out.Storage.S3.SecretKey = ""
	return &out
}

// redactURL оставляет схему, хост и путь (для Postgres это имя базы).
// Строки, которые не разбираются как URL (например, key=value DSN), скрываются целиком.
func redactURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "memory://") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redactedMark
	}
	return u.Scheme + "://" + u.Host + u.Path
}

func maskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 4:
		return "****"
	default:
		return key[:4] + "****"
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
