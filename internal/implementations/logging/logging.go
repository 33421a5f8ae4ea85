package logging

import (
	"context"
	"inboxflow/internal/core/domain/logging"

	"go.uber.org/zap"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func NewZapLogger(isProduction bool) *ZapLogger {
	var logger *zap.Logger
	var err error
	if isProduction {
		logger, err = zap.NewProduction(zap.AddCallerSkip(1))
	} else {
		logger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	}
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return NewFromZap(logger)
}

func NewFromZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(ctx, entries...)...)
}

func prepareArgs(ctx context.Context, entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2+2)
	if traceID, ok := logging.TraceID(ctx); ok {
		args = append(args, "traceID", traceID)
	}
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
