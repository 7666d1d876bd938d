package utils

import (
	"github.com/caarlos0/env/v6"
)

// Config contains all the configuration options
type Config struct {
	// Stage is the current execution environment. Can be one of "prod", "dev" or "test"
	Stage string `env:"FAMESTREET_ENV" envDefault:"dev"`

	// Logging related options

	// LogFileName is the name of the log file. "stdout" logs to standard output
	LogFileName string `env:"LOG_FILE_NAME" envDefault:"stdout"`
	// LogMaxSize is the maximum size(MB) of a log file before it gets rotated
	LogMaxSize int `env:"LOG_MAX_SIZE" envDefault:"50"`
	// LogLevel determines the log level. Can be one of "debug", "info", "warn", "error"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Database related options

	// DbUser is the name of the database user
	DbUser string `env:"DB_USER" envDefault:"root"`
	// DbPassword is the password of the database user
	DbPassword string `env:"DB_PASSWORD" envDefault:""`
	// DbHost is the host name of the database server
	DbHost string `env:"DB_HOST" envDefault:""`
	// DbName is the name of the database
	DbName string `env:"DB_NAME" envDefault:"famestreet"`

	// Server related options

	// ServerPort is the address to which the HTTP server will bind
	ServerPort string `env:"SERVER_PORT" envDefault:":8000"`

	// OwnerAccount is the exchange operator's account. The operator may
	// end any stock's auction in addition to the stock's influencer.
	OwnerAccount string `env:"OWNER_ACCOUNT" envDefault:"operator"`
}

// GetConfiguration parses the configuration from environment variables
func GetConfiguration() (*Config, error) {
	conf := &Config{}
	if err := env.Parse(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
