package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. A missing required variable is a startup-time
// fatal: in particular the service refuses to start without a JWT signing
// secret, so token issuance can never fail on configuration at runtime.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret    string // secret used to sign identity tokens
	JWTIssuer    string // issuer claim written into and required from tokens
	JWTAudience  string // audience claim written into and required from tokens
	TokenTTLDays int    // identity token time-to-live in days
	ResetTTLMin  int    // password reset token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	SMTPHost string // SMTP relay host for outgoing mail
	SMTPPort int    // SMTP relay port
	SMTPUser string // SMTP username (optional)
	SMTPPass string // SMTP password (optional)
	MailFrom string // From address on outgoing mail

	MinioEndpoint  string // object storage endpoint (host:port)
	MinioAccessKey string // object storage access key
	MinioSecretKey string // object storage secret key
	MinioBucket    string // bucket holding uploaded photos
	MinioUseSSL    bool   // connect to object storage over TLS
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:    must("JWT_SECRET"),
		JWTIssuer:    must("JWT_ISSUER"),
		JWTAudience:  must("JWT_AUDIENCE"),
		TokenTTLDays: intDefault("TOKEN_TTL_DAYS", 7),
		ResetTTLMin:  intDefault("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:   mustInt("BCRYPT_COST"),

		SMTPHost: getenv("SMTP_HOST", "localhost"),
		SMTPPort: intDefault("SMTP_PORT", 25),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "noreply@adboards.local"),

		MinioEndpoint:  must("MINIO_ENDPOINT"),
		MinioAccessKey: must("MINIO_ACCESS_KEY"),
		MinioSecretKey: must("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "adboards-photos"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intDefault reads an optional integer variable, falling back to def when
// unset or malformed is fatal like mustInt.
func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
