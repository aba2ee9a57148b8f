package types

import (
	"os"
	"strings"
)

var (
	// Wide open by default; deployments restrict via ALLOWED_ORIGINS.
	defaultOrigins = []string{"*"}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		var origins []string

		for _, origin := range strings.Split(allowedOrigins, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}

		if len(origins) > 0 {
			return origins
		}
	}

	return defaultOrigins
}

// WildcardOrigins reports whether the configured origin list is the open
// wildcard, which gin-contrib/cors handles via AllowAllOrigins.
func WildcardOrigins() bool {
	return len(AllowedOrigins) == 1 && AllowedOrigins[0] == "*"
}
