package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service settings. Values come from an optional YAML file
// named by CONFIG_FILE, then from the environment (including .env), which wins.
type Config struct {
	Port          string `yaml:"port"`
	TemplatePath  string `yaml:"template_path"`
	FilePrefix    string `yaml:"file_prefix"`
	IDPrefix      string `yaml:"id_prefix"`
	Subtitle      string `yaml:"subtitle"`
	OutputDir     string `yaml:"output_dir"`
	LogLevel      string `yaml:"log_level"`
	QREnabled     bool   `yaml:"qr_enabled"`
	MaxPhotoBytes int64  `yaml:"max_photo_bytes"`
}

// Default is the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:          "8080",
		TemplatePath:  "certificate-template.png",
		FilePrefix:    "mother-dairy",
		IDPrefix:      "MD",
		Subtitle:      "Mother Dairy Safety Training",
		OutputDir:     "certificates",
		LogLevel:      "info",
		MaxPhotoBytes: 10 << 20,
	}
}

// Load reads .env (if present), the YAML file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.TemplatePath, "TEMPLATE_PATH")
	setString(&c.FilePrefix, "FILE_PREFIX")
	setString(&c.IDPrefix, "ID_PREFIX")
	setString(&c.Subtitle, "CERT_SUBTITLE")
	setString(&c.OutputDir, "OUTPUT_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("QR_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("load config: QR_ENABLED: %w", err)
		}
		c.QREnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("MAX_PHOTO_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("load config: MAX_PHOTO_BYTES: %w", err)
		}
		c.MaxPhotoBytes = n
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port must not be empty")
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("config: max photo bytes must be positive, got %d", c.MaxPhotoBytes)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
