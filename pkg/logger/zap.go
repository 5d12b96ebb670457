package logger

import "go.uber.org/zap"

// New builds the process logger: JSON in prod, console otherwise.
// The returned cleanup flushes buffered entries.
func New(env string) (*zap.Logger, func() error, error) {
	var (
		log *zap.Logger
		err error
	)

	if env == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() error { return log.Sync() }

	return log, cleanup, nil
}
