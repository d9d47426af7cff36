package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "strings"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Redis, cache, rate limit and event settings
// have their own loaders in this package.
type Config struct {
    Env          string   // application environment (e.g. "dev", "prod")
    Port         string   // HTTP port to listen on
    DBUser       string   // database username
    DBPass       string   // database password (optional)
    DBHost       string   // database host address
    DBPort       string   // database port number
    DBName       string   // database name
    AutoMigrate  bool     // create missing tables at startup
    JWTSecret    string   // secret used to sign JWTs
    AccessTTLMin int      // access token time‑to‑live in minutes
    BcryptCost   int      // bcrypt cost for password hashing
    LogLevel     string   // logrus level name
    LogFormat    string   // "text" or "json"
    CORSOrigins  []string // allowed origins, "*" for any
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    env := must("APP_ENV")
    defFormat := "text"
    if env == "prod" || env == "production" {
        defFormat = "json"
    }
    return Config{
        Env:          env,                                  // environment (dev/test/prod)
        Port:         must("APP_PORT"),                     // port to bind the HTTP server
        DBUser:       must("DB_USER"),                      // database user
        DBPass:       os.Getenv("DB_PASS"),                 // database password (empty allowed)
        DBHost:       must("DB_HOST"),                      // database host
        DBPort:       must("DB_PORT"),                      // database port
        DBName:       must("DB_NAME"),                      // database name
        AutoMigrate:  envBool("DB_AUTO_MIGRATE", true),
        JWTSecret:    must("JWT_SECRET"),                   // secret used for signing JWTs
        AccessTTLMin: intOr("ACCESS_TOKEN_TTL_MIN", 1440),  // one day
        BcryptCost:   intOr("BCRYPT_COST", 10),             // bcrypt cost factor
        LogLevel:     envStr("LOG_LEVEL", "info"),
        LogFormat:    envStr("LOG_FORMAT", defFormat),
        CORSOrigins:  splitList(envStr("CORS_ORIGINS", "*")),
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

// intOr is like envInt but a present, malformed value is fatal.
func intOr(key string, def int) int {
    s, ok := os.LookupEnv(key)
    if !ok || s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
