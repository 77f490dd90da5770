package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	With(fields map[string]interface{}) Logger
}

// ZapLogger é a implementação concreta da interface Logger sobre o zap,
// com saída JSON estruturada.
type ZapLogger struct {
	z *zap.Logger
}

// NewLogger cria e retorna uma nova instância do Logger.
// Níveis aceitos: debug, info, warn, error. Valores desconhecidos caem em info.
func NewLogger(level string) Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"

	z, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

// NewFromZap embrulha um *zap.Logger já configurado.
func NewFromZap(z *zap.Logger) Logger {
	return &ZapLogger{z: z}
}

// toZapFields converte o mapa de campos em campos tipados do zap.
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error) {
	l.z.Error(msg, zap.Error(err))
}

// Fatal registra o erro e encerra o processo.
func (l *ZapLogger) Fatal(msg string, err error) {
	l.z.Fatal(msg, zap.Error(err))
}

func (l *ZapLogger) With(fields map[string]interface{}) Logger {
	return &ZapLogger{z: l.z.With(toZapFields(fields)...)}
}

// Sync descarrega o buffer do zap. Chamado no encerramento do processo.
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}
