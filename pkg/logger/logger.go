package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the application logger. Production config by default, the
// development (console) encoder when APP_ENV=development.
func New() *zap.SugaredLogger {
	var l *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		// Fall back to a no-op logger rather than failing startup.
		return zap.NewNop().Sugar()
	}

	return l.Sugar()
}
