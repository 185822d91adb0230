package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/omytech/contact-api/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"

var config *Config

// Config holds every runtime setting of the contact API. Only this struct
// must be used to hold configuration values, no direct access to env or any
// other config source should be made.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=contact_api"`
	AppDebug            bool   `env:"APP_DEBUG,default=1"`
	AppVersion          string `env:"APP_VERSION,default=1.0.0"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr string `env:"HTTP_LISTEN_ADDR,default=:3001"`

	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME,default=contact_form_db"`

	SmtpHost     string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SmtpPort     int    `env:"SMTP_PORT,default=587"`
	SmtpSecure   bool   `env:"SMTP_SECURE,default=false"`
	SmtpUser     string `env:"SMTP_USER"`
	SmtpPassword string `env:"SMTP_PASSWORD"`

	EmailFrom string `env:"EMAIL_FROM"`
	EmailTo   string `env:"EMAIL_TO"`

	CorsOrigin string `env:"CORS_ORIGIN,default=http://localhost:3000"`

	RateSubmitWindow time.Duration `env:"RATE_SUBMIT_WINDOW,default=15m"`
	RateSubmitMax    int           `env:"RATE_SUBMIT_MAX,default=5"`
	RateApiWindow    time.Duration `env:"RATE_API_WINDOW,default=15m"`
	RateApiMax       int           `env:"RATE_API_MAX,default=100"`

	// reserved for future authenticated admin routes, wired to nothing yet
	JwtSecret    string `env:"JWT_SECRET"`
	JwtExpiresIn string `env:"JWT_EXPIRES_IN,default=24h"`

	PromNamespace string `env:"PROM_NAMESPACE"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
