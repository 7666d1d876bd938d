package utils

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is an instance of logrus.Logger
// Logger is to be used for all logging
var Logger *logrus.Logger

// InitLogger initializes the logger with apropriate configuration options
func InitLogger(conf *Config) {
	var (
		fileName = conf.LogFileName
		maxSize  = conf.LogMaxSize
		logLevel = conf.LogLevel
	)

	if fileName == "" {
		fileName = "stdout"
	}

	if maxSize == 0 {
		maxSize = 50
	}

	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		panic(err)
	}

	Logger = &logrus.Logger{
		Formatter: &logrus.JSONFormatter{},
		Level:     level,
	}

	if fileName == "stdout" {
		Logger.Out = os.Stdout
		Logger.Formatter = &logrus.TextFormatter{}
	} else {
		Logger.Out = &lumberjack.Logger{
			Filename: fileName,
			MaxSize:  maxSize, // MB
		}
	}

	Logger.Info("Logger started")
}

func init() {
	// Keep a usable logger around even before InitLogger runs, so that
	// packages logging from tests don't trip on a nil Logger.
	Logger = &logrus.Logger{
		Formatter: &logrus.TextFormatter{},
		Out:       os.Stdout,
		Level:     logrus.WarnLevel,
	}
}
