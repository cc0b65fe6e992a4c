package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Parser      ParserConfig     `toml:"parser"`
	Classifier  ClassifierConfig `toml:"classifier"`
	WebSocket   WebSocketConfig  `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level       string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Format      string   `toml:"format"` // "json" or "text"
	Output      []string `toml:"output"` // "stdout", "file"
	ClientDebug bool     `toml:"client_debug"`
}

// ParserConfig controls document upload and extraction behaviour
type ParserConfig struct {
	MaxFileSizeMB  int    `toml:"max_file_size_mb" validate:"gt=0"`
	UploadDir      string `toml:"upload_dir"`      // Temp directory for uploaded files (empty = os.TempDir)
	ParseTimeout   string `toml:"parse_timeout"`   // Per-document timeout as duration string
	OCREnabled     bool   `toml:"ocr_enabled"`     // Run OCR on images (requires tesseract)
	KeepUploads    bool   `toml:"keep_uploads"`    // Keep uploaded files after parsing (debugging)
	MaxStoredFiles int    `toml:"max_stored_files"` // Cap on retained results (0 = unlimited)
}

// ClassifierConfig controls text block classification thresholds.
// A block shorter than HeaderMaxLength with no newline and at least one
// uppercase letter classifies as a header; fewer than ShortTextMaxWords
// words classifies as short text; any caption keyword classifies as caption.
type ClassifierConfig struct {
	HeaderMaxLength   int      `toml:"header_max_length" validate:"gt=0"`
	ShortTextMaxWords int      `toml:"short_text_max_words" validate:"gt=0"`
	CaptionKeywords   []string `toml:"caption_keywords"`
}

// WebSocketConfig contains configuration for WebSocket event streaming
type WebSocketConfig struct {
	MinLevel string `toml:"min_level"` // Minimum log level to broadcast
	// Throttle interval for high-frequency parse progress events, e.g. "500ms"
	ProgressThrottle string   `toml:"progress_throttle"`
	ExcludePatterns  []string `toml:"exclude_patterns"` // Log message patterns to exclude from broadcasting
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in docsift.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Parser: ParserConfig{
			MaxFileSizeMB: 50,
			UploadDir:     "", // os.TempDir
			ParseTimeout:  "2m",
			OCREnabled:    true,
		},
		Classifier: ClassifierConfig{
			HeaderMaxLength:   100,
			ShortTextMaxWords: 10,
			CaptionKeywords:   []string{"table", "figure", "chart", "graph"},
		},
		WebSocket: WebSocketConfig{
			MinLevel:         "info",
			ProgressThrottle: "500ms",
			ExcludePatterns: []string{
				"WebSocket client connected",
				"WebSocket client disconnected",
				"HTTP request",
				"HTTP response",
			},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration values against struct constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: DOCSIFT_ENV, fallback: GO_ENV)
	if env := os.Getenv("DOCSIFT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DOCSIFT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DOCSIFT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("DOCSIFT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DOCSIFT_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("DOCSIFT_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Parser configuration
	if maxSize := os.Getenv("DOCSIFT_PARSER_MAX_FILE_SIZE_MB"); maxSize != "" {
		if ms, err := strconv.Atoi(maxSize); err == nil {
			config.Parser.MaxFileSizeMB = ms
		}
	}
	if uploadDir := os.Getenv("DOCSIFT_PARSER_UPLOAD_DIR"); uploadDir != "" {
		config.Parser.UploadDir = uploadDir
	}
	if timeout := os.Getenv("DOCSIFT_PARSER_PARSE_TIMEOUT"); timeout != "" {
		config.Parser.ParseTimeout = timeout
	}
	if ocr := os.Getenv("DOCSIFT_PARSER_OCR_ENABLED"); ocr != "" {
		if o, err := strconv.ParseBool(ocr); err == nil {
			config.Parser.OCREnabled = o
		}
	}
	if keep := os.Getenv("DOCSIFT_PARSER_KEEP_UPLOADS"); keep != "" {
		if k, err := strconv.ParseBool(keep); err == nil {
			config.Parser.KeepUploads = k
		}
	}

	// Classifier configuration
	if headerMax := os.Getenv("DOCSIFT_CLASSIFIER_HEADER_MAX_LENGTH"); headerMax != "" {
		if hm, err := strconv.Atoi(headerMax); err == nil {
			config.Classifier.HeaderMaxLength = hm
		}
	}
	if shortMax := os.Getenv("DOCSIFT_CLASSIFIER_SHORT_TEXT_MAX_WORDS"); shortMax != "" {
		if sm, err := strconv.Atoi(shortMax); err == nil {
			config.Classifier.ShortTextMaxWords = sm
		}
	}
	if keywords := os.Getenv("DOCSIFT_CLASSIFIER_CAPTION_KEYWORDS"); keywords != "" {
		kws := []string{}
		for _, k := range strings.Split(keywords, ",") {
			trimmed := strings.TrimSpace(k)
			if trimmed != "" {
				kws = append(kws, trimmed)
			}
		}
		if len(kws) > 0 {
			config.Classifier.CaptionKeywords = kws
		}
	}

	// WebSocket configuration
	if minLevel := os.Getenv("DOCSIFT_WEBSOCKET_MIN_LEVEL"); minLevel != "" {
		config.WebSocket.MinLevel = minLevel
	}
	if throttle := os.Getenv("DOCSIFT_WEBSOCKET_PROGRESS_THROTTLE"); throttle != "" {
		config.WebSocket.ProgressThrottle = throttle
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Parser.MaxFileSizeMB) * 1024 * 1024
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
