package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/greenhouse-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestLoggingCaptureNamedWithCategory(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.WarnLevel)

	logger := GetLoggerWith(LoggerNameCore, zap.String(LoggerFieldCategory, LoggerCategorySetpoint))
	logger.Info("dropped below level")
	logger.Warn("kept")

	logOutput := buf.String()
	if strings.Contains(logOutput, "dropped below level") {
		t.Errorf("expected info entry to be filtered, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, `"logger":"greenhouse_core"`) || !strings.Contains(logOutput, `"category":"setpoint"`) {
		t.Errorf("expected named logger with category, got: %s", logOutput)
	}
}
