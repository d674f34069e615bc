package configs

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type EnvironmentConfig struct {
	ProdMode   bool
	HideErrors bool
	BaseURL    string `json:"baseUrl"` // Base URL for absolute links (e.g., "https://example.com")
	HTTP       struct {
		Port string `json:"port"`
	} `json:"http"`
	Logs struct {
		Directory string `json:"directory"`
	} `json:"logs"`
	RateLimit struct {
		Window  string `json:"window"`  // duration string, e.g. "1h" or "60s"
		Ceiling int    `json:"ceiling"` // max attempts per client within the window
	} `json:"rateLimit"`
	Email struct {
		Provider string `json:"provider"` // "ses", "resend" or "smtp"
		Operator string `json:"operator"` // fallback operator notification address
		SES      struct {
			Region          string `json:"region"`
			AccessKeyID     string `json:"accessKeyId"`
			SecretAccessKey string `json:"secretAccessKey"`
		} `json:"ses"`
		Resend struct {
			APIKey string `json:"apiKey"`
		} `json:"resend"`
		SMTP struct {
			Server   string `json:"server"`
			Port     int    `json:"port"`
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"smtp"`
	} `json:"email"`
	Database struct {
		Host     string `json:"host"`
		User     string `json:"user"`
		Port     string `json:"port"`
		Password string `json:"password"`
		Name     string `json:"name"`
	} `json:"database"`
}

// RateLimitWindow parses the configured window, defaulting to one hour.
func (envConfig *EnvironmentConfig) RateLimitWindow() time.Duration {
	window, err := time.ParseDuration(envConfig.RateLimit.Window)
	if err != nil || window <= 0 {
		return time.Hour
	}
	return window
}

func ReadEnvironmentConfig(prodMode bool, hideErrors bool) (EnvironmentConfig, error) {
	configName := "env-dev.json"
	if prodMode {
		configName = "env-prod.json"
	}

	configPath := filepath.Join("websites", configName)
	configFile, err := os.Open(configPath)
	if err != nil {
		return EnvironmentConfig{}, fmt.Errorf("failed to open config file %s: %v", configName, err)
	}
	defer configFile.Close()

	configData, err := ioutil.ReadAll(configFile)
	if err != nil {
		return EnvironmentConfig{}, fmt.Errorf("failed to read config file %s: %v", configName, err)
	}

	var envConfig EnvironmentConfig
	err = json.Unmarshal(configData, &envConfig)
	if err != nil {
		return EnvironmentConfig{}, fmt.Errorf("failed to parse config file %s: %v", configName, err)
	}

	envConfig.ProdMode = prodMode
	envConfig.HideErrors = hideErrors

	// secrets and deployment overrides come from the environment,
	// optionally seeded from a .env file
	_ = godotenv.Load()
	envConfig.applyEnvOverrides()

	// defaults
	if envConfig.HTTP.Port == "" {
		envConfig.HTTP.Port = "80"
	}
	if envConfig.Logs.Directory == "" {
		envConfig.Logs.Directory = "logs"
	}
	if envConfig.RateLimit.Ceiling == 0 {
		envConfig.RateLimit.Ceiling = 15
	}
	if envConfig.RateLimit.Window == "" {
		envConfig.RateLimit.Window = "1h"
	}
	if envConfig.Email.Provider == "" {
		envConfig.Email.Provider = "resend"
	}

	return envConfig, nil
}

func (envConfig *EnvironmentConfig) applyEnvOverrides() {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		envConfig.HTTP.Port = v
	}
	if v := os.Getenv("LOGS_DIR"); v != "" {
		envConfig.Logs.Directory = v
	}
	if v := os.Getenv("EMAIL_PROVIDER"); v != "" {
		envConfig.Email.Provider = v
	}
	if v := os.Getenv("OPERATOR_EMAIL"); v != "" {
		envConfig.Email.Operator = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		envConfig.Email.Resend.APIKey = v
	}
	if v := os.Getenv("SES_REGION"); v != "" {
		envConfig.Email.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		envConfig.Email.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		envConfig.Email.SES.SecretAccessKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		envConfig.Email.SMTP.Password = v
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		envConfig.RateLimit.Window = v
	}
	if v := os.Getenv("RATE_LIMIT_CEILING"); v != "" {
		if ceiling, err := strconv.Atoi(v); err == nil {
			envConfig.RateLimit.Ceiling = ceiling
		}
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		envConfig.Database.Password = v
	}
}
