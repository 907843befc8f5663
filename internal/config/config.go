package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven defaults. Everything here is a
// tuning knob; the required inputs (model path, source) come from the
// command line.
type Config struct {
	RuntimeLibrary string  // onnxruntime shared library path override
	DetectionSize  int     // detector input size
	ConfThreshold  float64 // detection confidence threshold
	NMSThreshold   float64 // non-maximum suppression IoU threshold
	WindowTitle    string  // preview window title
}

// Load reads configuration from a .env file (if present) and the
// process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RuntimeLibrary: getEnv("FACESEQ_ORT_LIBRARY", ""),
		DetectionSize:  getEnvAsInt("FACESEQ_DETECTION_SIZE", 640),
		ConfThreshold:  getEnvAsFloat("FACESEQ_CONF_THRESHOLD", 0.5),
		NMSThreshold:   getEnvAsFloat("FACESEQ_NMS_THRESHOLD", 0.4),
		WindowTitle:    getEnv("FACESEQ_WINDOW_TITLE", "faceseq"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
