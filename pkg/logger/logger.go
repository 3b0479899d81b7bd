package logger

import "go.uber.org/zap"

// NewLogger builds the process-wide zap logger. Development mode gets the
// human-readable console encoder.
func NewLogger(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
