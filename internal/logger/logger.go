package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap - общий логгер раннера. Встраивает *zap.Logger, поэтому
// Info/Error/With доступны напрямую.
type Zap struct {
	*zap.Logger
}

// New создает логгер: JSON для prod, консольный вывод для остальных окружений.
func New(env, level string) (*Zap, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("уровень логирования %q: %w", level, err)
	}

	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// stdout занят отчетом о сценариях
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Zap{Logger: l}, nil
}

// Nop - логгер без вывода, для тестов.
func Nop() *Zap {
	return &Zap{Logger: zap.NewNop()}
}

// Scenario возвращает логгер с полем сценария.
func (z *Zap) Scenario(id string) *zap.Logger {
	return z.With(zap.String("scenario", id))
}
