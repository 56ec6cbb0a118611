package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/coffee-shop-env/internal/environment"
)

func TestNew(t *testing.T) {
	for _, target := range environment.Targets() {
		logger, err := New(target)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", target, err)
		}
		if logger == nil {
			t.Fatalf("expected logger instance for %s", target)
		}
		_ = logger.Sync()
	}
}

func TestNewProductionDisablesDebug(t *testing.T) {
	logger, err := New(environment.Production)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be disabled in production")
	}
}
