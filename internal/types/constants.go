package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// FrontendURL is the base every share link is built from. The link
// itself is not a secret, so a misconfigured base only breaks copy-paste.
func FrontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:3000"
}

// AllowedOrigins resolves the CORS origin list from the environment at
// call time, after main has loaded any .env file.
func AllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
