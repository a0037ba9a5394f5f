package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "BALLSIM_"

// LoadEnv reads a .env file if present and applies BALLSIM_* overrides to
// cfg. Unparseable values are ignored.
func LoadEnv(cfg *Config) {
	godotenv.Load()

	cfg.Gravity = getEnvFloat("GRAVITY", cfg.Gravity)
	cfg.Damping = getEnvFloat("DAMPING", cfg.Damping)
	cfg.LaunchScale = getEnvFloat("LAUNCH_SCALE", cfg.LaunchScale)
	cfg.MaxDt = getEnvFloat("MAX_DT", cfg.MaxDt)
	cfg.FPS = getEnvInt("FPS", cfg.FPS)
	cfg.Seed = int64(getEnvInt("SEED", int(cfg.Seed)))
	cfg.Recorder.Pattern = getEnv("RECORD_PATTERN", cfg.Recorder.Pattern)
	cfg.Server.Addr = getEnv("ADDR", cfg.Server.Addr)
	cfg.Server.TickRate = getEnvInt("TICK_RATE", cfg.Server.TickRate)
	cfg.Server.Release = getEnv("ENV", "") == "production" || cfg.Server.Release
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
