// Package logging configures the zap logger every build-facing
// component writes through: structured fields throughout, human-
// readable console output in development, JSON in production.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production-mode *zap.Logger, or a development-mode one
// (console-encoded, debug level) when dev is true.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// WithFeature returns a child logger tagged with the feature id and kind
// currently being processed, for use across normalize/depgraph/executor.
func WithFeature(log *zap.Logger, featureID, kind string) *zap.Logger {
	return log.With(zap.String("featureId", featureID), zap.String("kind", kind))
}
