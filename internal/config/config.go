package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	SessionSecret string // secret used to sign session cookies
	SessionTTLMin int    // session time‑to‑live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	DeptTable     string // name of the department lookup table
	PublicDir     string // directory holding the static HTML pages
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values fall
// back to defaults so a bare deployment still boots.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),        // environment (dev/test/prod)
		Port:          must("APP_PORT"),       // port to bind the HTTP server
		DBUser:        must("DB_USER"),        // database user
		DBPass:        os.Getenv("DB_PASS"),   // database password (empty allowed)
		DBHost:        must("DB_HOST"),        // database host
		DBPort:        must("DB_PORT"),        // database port
		DBName:        must("DB_NAME"),        // database name
		SessionSecret: must("SESSION_SECRET"), // secret used for signing session cookies
		SessionTTLMin: intenv("SESSION_TTL_MIN", 1440), // session lifetime in minutes
		BcryptCost:    intenv("BCRYPT_COST", 10),      // bcrypt cost factor
		DeptTable:     getenv("DEPT_TABLE", "dept"),            // department table name
		PublicDir:     getenv("PUBLIC_DIR", "public"),          // static pages directory
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an environment variable or a default when the
// variable is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intenv returns a positive integer environment value or the default.
// Malformed and non-positive values are logged and replaced by the default;
// intenv never returns zero, so a bad SESSION_TTL_MIN cannot produce
// already-expired cookies and a bad BCRYPT_COST cannot disable hashing.
func intenv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
