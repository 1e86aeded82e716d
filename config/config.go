package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	DBType      string
	MongoURL    string
	MongoDB     string
	PostgresURL string
	Migrations  string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	DBTimeout   time.Duration
	LogLevel    string
	CORSOrigin  string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBType:      getEnv("DB_TYPE", "mongo"),
		MongoURL:    os.Getenv("MONGO_URL"),
		MongoDB:     getEnv("MONGO_DB", "catalog"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		Migrations:  getEnv("MIGRATIONS_PATH", "file://db/migrations"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    getDuration("TOKEN_TTL", time.Hour),
		BcryptCost:  getInt("BCRYPT_COST", bcrypt.DefaultCost),
		DBTimeout:   getDuration("DB_TIMEOUT", 5*time.Second),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBType {
	case "mongo":
		if c.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL is required when DB_TYPE=mongo"))
		}
	case "postgres":
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required when DB_TYPE=postgres"))
		}
	default:
		errs = append(errs, errors.New("DB_TYPE must be mongo or postgres"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, errors.New("BCRYPT_COST out of range"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return d
}

func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return n
}
