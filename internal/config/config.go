package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:7380"
	DefaultDBFileName = "products.db"
	DefaultUploadsDir = "uploads"
	DefaultLogLevel   = "info"

	DefaultMaxUploadBytes     int64 = 25 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	configFileName  = ".productdocs.toml"
	configDirEnvKey = "PRODUCT_DOCS_CONFIG_DIR"
	baseDirEnvKey   = "PRODUCT_DOCS_BASE_DIR"
	apiURLEnvKey    = "PRODUCT_DOCS_API_URL"
	dbPathEnvKey    = "PRODUCT_DOCS_DB"
	logLevelEnvKey  = "PRODUCT_DOCS_LOG_LEVEL"
)

// UploadConfig defines runtime limits for file uploads.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// Config defines runtime configuration for productdocs.
type Config struct {
	APIURL      string       `toml:"api_url"`
	DBPath      string       `toml:"db_path"`
	StorageRoot string       `toml:"storage_root"`
	LogLevel    string       `toml:"log_level"`
	Uploads     UploadConfig `toml:"uploads"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
	}
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"storage_root",
	"log_level",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "storage_root":
		return c.StorageRoot, nil
	case "log_level":
		return c.LogLevel, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Path returns the config file path: the override dir when set, else the
// base dir, else the current working directory.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	if dir := strings.TrimSpace(os.Getenv(baseDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}

	baseDir := strings.TrimSpace(os.Getenv(baseDirEnvKey))
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(baseDir, DefaultDBFileName)
	}
	if cfg.StorageRoot == "" {
		cfg.StorageRoot = filepath.Join(baseDir, DefaultUploadsDir)
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if level := strings.TrimSpace(os.Getenv(logLevelEnvKey)); level != "" {
		cfg.LogLevel = level
	}

	cfg.normalizeUploadDefaults()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeUploadDefaults() {
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
}
