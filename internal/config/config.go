package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string // ENV: production, development, etc.
	FrontendURL string
	// CORS: from ALLOWED_ORIGINS, otherwise FRONTEND_URL plus its www. variant
	AllowedOrigins []string
	AllowedHost    string // production host check, empty disables it
	TrustProxy     bool   // honor X-Forwarded-For for client IPs

	BaserowURL        string
	BaserowToken      string
	UsersTableID      string
	JobsTableID       string
	CandidatesTableID string
	SchedulesTableID  string
	UpstreamTimeout   time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleCalendarID   string

	RedisURI string // optional: signup locks and API rate limiting
	MongoURI string // optional: OAuth callback event sink

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	LogLevel string
	LogDev   bool
}

func Load() *Config {
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{frontendURL}
		// The frontend is served from both the apex and the www host in production
		if strings.HasPrefix(frontendURL, "https://") && !strings.HasPrefix(frontendURL, "https://www.") {
			www := strings.Replace(frontendURL, "https://", "https://www.", 1)
			if !containsOrigin(allowedOrigins, www) {
				allowedOrigins = append(allowedOrigins, www)
			}
		}
	}

	return &Config{
		Port:                getEnv("PORT", "3001"),
		Environment:         strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		FrontendURL:         frontendURL,
		AllowedOrigins:      allowedOrigins,
		AllowedHost:         getEnv("ALLOWED_HOST", ""),
		TrustProxy:          getBool("TRUST_PROXY", false),
		BaserowURL:          strings.TrimRight(getEnv("BASEROW_URL", ""), "/"),
		BaserowToken:        getEnv("BASEROW_TOKEN", ""),
		UsersTableID:        getEnv("USERS_TABLE_ID", "711"),
		JobsTableID:         getEnv("JOBS_TABLE_ID", "709"),
		CandidatesTableID:   getEnv("CANDIDATES_TABLE_ID", "710"),
		SchedulesTableID:    getEnv("SCHEDULES_TABLE_ID", "713"),
		UpstreamTimeout:     getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:   getEnv("GOOGLE_REDIRECT_URI", ""),
		GoogleCalendarID:    getEnv("GOOGLE_CALENDAR_ID", "primary"),
		RedisURI:            getEnv("REDIS_URI", ""),
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		LogLevel:            getEnv("LOG_LEVEL", ""),
		LogDev:              os.Getenv("LOG_DEV") == "1",
	}
}

// Validate reports configuration the server cannot start without.
func (c *Config) Validate() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleRedirectURI == "" {
		return errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URI are required")
	}
	if c.IsProduction() && c.BaserowURL == "" {
		return errors.New("BASEROW_URL is required in production")
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CloudinaryEnabled reports whether all upload credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}
