// Package config provides environment-based configuration for the compliance-review server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultProjectName   = "Compliance Review Service"
	DefaultAPIV1Prefix   = "/api/v1"
	DefaultMinMatchScore = 0.2
	DefaultReviewTimeout = 120 * time.Second
)

// Settings holds the process-wide configuration, read once at startup.
type Settings struct {
	ProjectName string
	APIV1Prefix string
	CORSOrigins []string

	// Processor selects the provider adapter (PDF_PROCESSOR). Matched
	// case-insensitively; unknown values fall back to the default provider.
	Processor string

	// MinMatchScore is the similarity threshold below which the matcher
	// reports no suitable reference.
	MinMatchScore float64

	// ReviewTimeout bounds one full review, including the provider call.
	ReviewTimeout time.Duration

	// CatalogueDir is a directory of YAML reference files. Used when
	// DatabaseURL is empty.
	CatalogueDir string

	// DatabaseURL, when set, loads the reference catalogue from Postgres
	// instead of the filesystem.
	DatabaseURL string
}

// Load reads settings from the environment, applying defaults for anything
// unset. It never fails: value errors are reported by Validate.
func Load() *Settings {
	s := &Settings{
		ProjectName:   envOr("PROJECT_NAME", DefaultProjectName),
		APIV1Prefix:   envOr("API_V1_STR", DefaultAPIV1Prefix),
		Processor:     strings.ToLower(strings.TrimSpace(os.Getenv("PDF_PROCESSOR"))),
		MinMatchScore: DefaultMinMatchScore,
		ReviewTimeout: DefaultReviewTimeout,
		CatalogueDir:  os.Getenv("CATALOGUE_DIR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	if raw := os.Getenv("BACKEND_CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				s.CORSOrigins = append(s.CORSOrigins, origin)
			}
		}
	}

	if raw := os.Getenv("MATCHER_MIN_SCORE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			s.MinMatchScore = v
		}
	}

	if raw := os.Getenv("REVIEW_TIMEOUT_SECONDS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			s.ReviewTimeout = time.Duration(v) * time.Second
		}
	}

	return s
}

// Validate checks that the loaded settings are usable.
func (s *Settings) Validate() error {
	if !strings.HasPrefix(s.APIV1Prefix, "/") {
		return fmt.Errorf("config error: API_V1_STR must start with '/', got %q", s.APIV1Prefix)
	}
	if s.MinMatchScore < 0 || s.MinMatchScore > 1 {
		return fmt.Errorf("config error: MATCHER_MIN_SCORE must be in [0, 1], got %v", s.MinMatchScore)
	}
	if s.CatalogueDir == "" && s.DatabaseURL == "" {
		return fmt.Errorf("config error: one of CATALOGUE_DIR or DATABASE_URL is required")
	}
	if s.CatalogueDir != "" {
		if _, err := os.Stat(s.CatalogueDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalogue directory not found: %s", s.CatalogueDir)
		}
	}
	return nil
}

// envOr returns the value of key, or fallback if key is unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
