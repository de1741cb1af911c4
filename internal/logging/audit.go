package logging

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditEventType names an audit event. Audit lines are JSON, one per event.
type AuditEventType string

const (
	AuditCartHydrated  AuditEventType = "cart_hydrated"
	AuditCartCleared   AuditEventType = "cart_cleared"
	AuditOrderSubmit   AuditEventType = "order_submit"
	AuditOrderAccepted AuditEventType = "order_accepted"
	AuditOrderRejected AuditEventType = "order_rejected"
	AuditOrderFailed   AuditEventType = "order_failed"
)

// AuditLogger writes structured audit events to audit.log.
type AuditLogger struct {
	logger *zap.Logger
	sink   *lumberjack.Logger
}

var (
	auditLogger *AuditLogger
	auditMu     sync.Mutex
)

// Audit returns the process audit logger. It is a no-op unless debug mode is on.
func Audit() *AuditLogger {
	auditMu.Lock()
	defer auditMu.Unlock()

	if !IsDebugMode() {
		return &AuditLogger{}
	}
	if auditLogger != nil {
		return auditLogger
	}

	optsMu.RLock()
	dir := opts.Dir
	optsMu.RUnlock()

	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "audit.log"),
		MaxSize:    16,
		MaxBackups: 3,
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.EpochMillisTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), zapcore.InfoLevel)

	auditLogger = &AuditLogger{logger: zap.New(core), sink: sink}
	return auditLogger
}

// CloseAudit flushes and closes the audit log.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditLogger == nil {
		return
	}
	_ = auditLogger.logger.Sync()
	_ = auditLogger.sink.Close()
	auditLogger = nil
}

// Log writes a single event.
func (a *AuditLogger) Log(event AuditEventType, fields ...zap.Field) {
	if a.logger == nil {
		return
	}
	a.logger.Info(string(event), fields...)
}

// CartHydrated records the number of lines restored from storage.
func (a *AuditLogger) CartHydrated(lines, totalItems int) {
	a.Log(AuditCartHydrated, zap.Int("lines", lines), zap.Int("total_items", totalItems))
}

// CartCleared records an explicit or post-checkout clear.
func (a *AuditLogger) CartCleared(lines int, reason string) {
	a.Log(AuditCartCleared, zap.Int("lines", lines), zap.String("reason", reason))
}

// OrderSubmitted records an order about to be sent.
func (a *AuditLogger) OrderSubmitted(requestID string, lines int) {
	a.Log(AuditOrderSubmit, zap.String("req", requestID), zap.Int("lines", lines))
}

// OrderResult records the outcome of an order submission.
func (a *AuditLogger) OrderResult(requestID string, lines int, elapsed time.Duration, success bool, errMsg string) {
	event := AuditOrderAccepted
	if !success {
		event = AuditOrderRejected
	}
	a.Log(event,
		zap.String("req", requestID),
		zap.Int("lines", lines),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.String("error", errMsg),
	)
}

// OrderFailed records a submission that never reached a backend verdict.
func (a *AuditLogger) OrderFailed(requestID string, err error) {
	a.Log(AuditOrderFailed, zap.String("req", requestID), zap.Error(err))
}
