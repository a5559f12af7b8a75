package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed thresholds.yaml
var thresholdsYAML []byte

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Recognizer RecognizerConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Thresholds ThresholdsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Dir string // directory holding reference images and the name table
}

type RecognizerConfig struct {
	URL      string // DeepFace-compatible service URL (e.g., http://localhost:5005)
	Model    string // defaults to VGG-Face
	Analyzer string // attribute analysis backend: deepface (default), openai, gemini
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

// ThresholdsConfig maps recognition model names to their maximum
// verification distance. Values come from the embedded thresholds.yaml.
type ThresholdsConfig struct {
	Models map[string]float64 `yaml:"models"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var thresholds ThresholdsConfig
	if err := yaml.Unmarshal(thresholdsYAML, &thresholds); err != nil {
		// Embedded file, so this can only fail if the file itself is broken.
		panic("failed to unmarshal embedded thresholds.yaml: " + err.Error())
	}

	return &Config{
		Server: ServerConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		Store: StoreConfig{
			Dir: envString("STORE_DIR", "saved_faces"),
		},
		Recognizer: RecognizerConfig{
			URL:      os.Getenv("RECOGNIZER_URL"),
			Model:    envString("RECOGNIZER_MODEL", "VGG-Face"),
			Analyzer: envString("FACE_ANALYZER", "deepface"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Thresholds: thresholds,
	}
}

// ModelThreshold returns the verification distance threshold for a model.
// Unknown models fall back to the VGG-Face threshold.
func (c *Config) ModelThreshold(modelName string) float64 {
	if t, ok := c.Thresholds.Models[modelName]; ok {
		return t
	}
	return c.Thresholds.Models["VGG-Face"]
}
