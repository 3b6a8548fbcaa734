// Package config loads application configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Site struct {
		BaseURL      string
		CredEmail    string
		CredPass     string
		LoginEnabled bool
		MaxRetries   int
		RetryDelay   int // seconds between session reinits
		SkipListFile string
	}

	Mongo struct {
		URI        string
		Database   string
		Collection string
	}

	Elasticsearch struct {
		Username string
		Password string
		Address  string
	}

	Browser struct {
		Engine               string // "chromedp" or "rod"
		Headless             bool
		UserDataDir          string
		DisableBlinkFeatures string
		Incognito            bool
		DisableDevShmUsage   bool
		NoSandbox            bool
		UserAgent            string
		WaitTimeout          int // seconds, long waits on page landmarks
		ProbeTimeout         int // seconds, access-restriction probe
	}

	Colly struct {
		AllowedDomains  []string
		UserAgent       string
		IgnoreRobotsTxt bool
		Async           bool
		Parallelism     int
		Delay           int
		RandomDelay     int
	}

	Log struct {
		Level string
		Dir   string
	}
}

// Load reads configuration from environment variables, applying defaults
// for everything except the credential and database values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	cfg.Site.BaseURL = getEnv("BASE_URL", "https://www.mcmaster.com/")
	cfg.Site.CredEmail = os.Getenv("CRED_EMAIL")
	cfg.Site.CredPass = os.Getenv("CRED_PASS")
	cfg.Site.LoginEnabled = getEnvAsBool("LOGIN_ENABLED", false)
	cfg.Site.MaxRetries = getEnvAsInt("MAX_RETRIES", 5)
	cfg.Site.RetryDelay = getEnvAsInt("RETRY_DELAY", 60)
	cfg.Site.SkipListFile = getEnv("SKIP_LIST_FILE", "config/skip_list.json")

	cfg.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = os.Getenv("DB_NAME")
	cfg.Mongo.Collection = os.Getenv("COLLECTION_NAME")
	if cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
		return nil, fmt.Errorf("DB_NAME and COLLECTION_NAME must be set")
	}

	cfg.Elasticsearch.Username = getEnv("ES_USERNAME", "elastic")
	cfg.Elasticsearch.Password = os.Getenv("ES_PASSWORD")
	cfg.Elasticsearch.Address = getEnv("ES_ADDRESS", "https://localhost:9200")

	cfg.Browser.Engine = getEnv("BROWSER_ENGINE", "chromedp")
	cfg.Browser.Headless = getEnvAsBool("BROWSER_HEADLESS", false)
	cfg.Browser.UserDataDir = getEnv("BROWSER_USER_DATA_DIR", "")
	cfg.Browser.DisableBlinkFeatures = getEnv("BROWSER_DISABLE_BLINK_FEATURES", "AutomationControlled")
	cfg.Browser.Incognito = getEnvAsBool("BROWSER_INCOGNITO", true)
	cfg.Browser.DisableDevShmUsage = getEnvAsBool("BROWSER_DISABLE_DEV_SHM_USAGE", true)
	cfg.Browser.NoSandbox = getEnvAsBool("BROWSER_NO_SANDBOX", true)
	cfg.Browser.UserAgent = getEnv("BROWSER_USER_AGENT", "")
	cfg.Browser.WaitTimeout = getEnvAsInt("BROWSER_WAIT_TIMEOUT", 60)
	cfg.Browser.ProbeTimeout = getEnvAsInt("BROWSER_PROBE_TIMEOUT", 2)

	cfg.Colly.AllowedDomains = nil // audit visits whatever links the store holds
	cfg.Colly.UserAgent = getEnv("COLLY_USER_AGENT", "partcrawler-audit/1.0")
	cfg.Colly.IgnoreRobotsTxt = getEnvAsBool("COLLY_IGNORE_ROBOTS_TXT", false)
	cfg.Colly.Async = getEnvAsBool("COLLY_ASYNC", true)
	cfg.Colly.Parallelism = getEnvAsInt("COLLY_PARALLELISM", 2)
	cfg.Colly.Delay = getEnvAsInt("COLLY_DELAY", 1)
	cfg.Colly.RandomDelay = getEnvAsInt("COLLY_RANDOM_DELAY", 2)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Dir = getEnv("LOG_DIR", "logs")

	return &cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
