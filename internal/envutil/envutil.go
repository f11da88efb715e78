package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// String returns the value of the named environment variable, or def when
// unset. A nil log is allowed.
func String(name, def string, log *logger.Logger) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", name, "default", def)
		}
		return def
	}
	return val
}

// Int parses the named environment variable as an integer, falling back to
// def when unset or malformed.
func Int(name string, def int, log *logger.Logger) int {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default",
				"env_var", name, "provided", val, "default", def)
		}
		return def
	}
	return i
}

// Bool parses the named environment variable as a boolean. Recognized true
// values: 1, true, yes, on. Recognized false values: 0, false, no, off.
// Anything else (including unset) yields def.
func Bool(name string, def bool, log *logger.Logger) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	case "":
		return def
	default:
		if log != nil {
			log.Debug("Environment variable could not be parsed as bool, using default",
				"env_var", name, "provided", val, "default", def)
		}
		return def
	}
}
