// Package logging builds the zap logger shared by the hosts.
package logging

import (
	"go.uber.org/zap"
)

// New returns a development logger for env "dev" and a production logger otherwise
func New(env string) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
