package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Env values
const (
	EnvDev  = "DEV"
	EnvTest = "TEST"
	EnvQA   = "QA"
	EnvProd = "PROD"
)

const defaultJWTSecret = "your-secret-key-change-in-production-09876543210"

var errDefaultJWTSecret = errors.New("JWT_SECRET must be set in " + EnvProd)

// DB drivers
const (
	DBDriverMongo  = "mongo"
	DBDriverMemory = "memory"
)

type (
	ServerConfig struct {
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		CORSAllowedOrigins []string
	}

	JWTConfig struct {
		SecretKey       string
		Algorithm       string
		ExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Driver  string
		URI     string
		Name    string
		Timeout time.Duration
	}

	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		RollbarToken     string
		SendgridApiKey   string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		AdminEmails      []string
		PlatformFeeRate  float64

		Server   ServerConfig
		JWT      JWTConfig
		Database DatabaseConfig
	}
)

// envKeys maps viper keys onto the environment variables the deployment uses.
var envKeys = map[string]string{
	"debug":                 "DEBUG",
	"appName":               "APP_NAME",
	"build":                 "BUILD",
	"jwtSecret":             "JWT_SECRET",
	"jwtAlgorithm":          "JWT_ALGORITHM",
	"jwtExpirationDelta":    "JWT_EXPIRATION_DELTA",
	"serverAddress":         "SERVER_ADDRESS",
	"serverDebugHost":       "SERVER_DEBUG_HOST",
	"serverShutdownTimeout": "SERVER_SHUTDOWN_TIMEOUT",
	"corsAllowedOrigins":    "CORS_ALLOWED_ORIGINS",
	"dbDriver":              "DB_DRIVER",
	"mongoURL":              "MONGO_URL",
	"dbName":                "DB_NAME",
	"dbTimeout":             "DB_TIMEOUT",
	"adminEmails":           "ADMIN_EMAILS",
	"platformFeeRate":       "PLATFORM_FEE_RATE",
	"rollbarToken":          "ROLLBAR_TOKEN",
	"sendgridApiKey":        "SENDGRID_API_KEY",
	"defaultFromEmail":      "DEFAULT_FROM_EMAIL",
	"frontendBaseURL":       "FRONTEND_BASE_URL",
}

// NewConfig loads the configuration from defaults, optional .env files and the environment.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = EnvDev
	}
	loadDotEnv(env)

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == EnvDev || env == EnvTest)
	v.SetDefault("appName", "Aumryx Teach")
	v.SetDefault("build", "dev")
	v.SetDefault("jwtSecret", defaultJWTSecret)
	v.SetDefault("jwtAlgorithm", "HS256")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 10*time.Second)
	v.SetDefault("corsAllowedOrigins", "*")
	v.SetDefault("dbDriver", DBDriverMongo)
	v.SetDefault("mongoURL", "mongodb://localhost:27017")
	v.SetDefault("dbName", "aumryx_teach")
	v.SetDefault("dbTimeout", 10*time.Second)
	v.SetDefault("adminEmails", "founder@aumryxteach.com")
	v.SetDefault("platformFeeRate", 0.10)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	for key, name := range envKeys {
		_ = v.BindEnv(key, name)
	}

	conf := &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        env == EnvTest,
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		AdminEmails:     SplitList(v.GetString("adminEmails"), true /* lower */),
		PlatformFeeRate: v.GetFloat64("platformFeeRate"),
		Server: ServerConfig{
			Address:            v.GetString("serverAddress"),
			DebugHost:          v.GetString("serverDebugHost"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			CORSAllowedOrigins: SplitList(v.GetString("corsAllowedOrigins")),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwtSecret"),
			Algorithm:       strings.ToUpper(v.GetString("jwtAlgorithm")),
			ExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Driver:  strings.ToLower(v.GetString("dbDriver")),
			URI:     v.GetString("mongoURL"),
			Name:    v.GetString("dbName"),
			Timeout: v.GetDuration("dbTimeout"),
		},
	}

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}
	from.Name = conf.AppName
	conf.DefaultFromEmail = *from

	if err = conf.Check(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// Check rejects settings that are only acceptable outside of production.
func (conf *Config) Check() error {
	if conf.Env == EnvProd && (conf.JWT.SecretKey == "" || conf.JWT.SecretKey == defaultJWTSecret) {
		return errDefaultJWTSecret
	}
	return nil
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (sc ServerConfig) AllowsAnyOrigin() bool {
	for _, o := range sc.CORSAllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// NewTestConfig returns a Config suitable for tests: in-memory storage, no external services.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Aumryx Teach",
		Env:              EnvTest,
		Build:            "test",
		Debug:            false,
		TestMode:         true,
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Aumryx Teach", Address: "noreply@localhost"},
		AdminEmails:      []string{"founder@aumryxteach.com"},
		PlatformFeeRate:  0.10,
		Server: ServerConfig{
			Address:            ":0",
			ShutdownTimeout:    time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		JWT: JWTConfig{
			SecretKey:       "secret",
			Algorithm:       "HS256",
			ExpirationDelta: 7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Driver:  DBDriverMemory,
			Name:    "aumryx_teach_test",
			Timeout: time.Second,
		},
	}
}

// loadDotEnv loads .env and config/.env.<env> if they exist (ignored if they do not).
func loadDotEnv(env string) {
	paths := []string{".env", filepath.Join("config", ".env."+strings.ToLower(env))}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Fatalf("config.godotenv(%s): %v", path, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", path, err)
		}
	}
}
