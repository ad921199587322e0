package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger 创建一个新的日志记录器
func NewLogger(debug bool) *zap.Logger {
	return NewLoggerWithVerbose(debug, false)
}

// NewLoggerWithVerbose 创建日志记录器。verbose 时使用便于阅读的控制台格式
func NewLoggerWithVerbose(debug, verbose bool) *zap.Logger {
	config := Config(debug, verbose)

	logger, err := config.Build()
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}

	return logger
}

// Config 返回日志配置，输出到 stderr
func Config(debug, verbose bool) zap.Config {
	config := zap.NewProductionConfig()
	if verbose {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch {
	case debug:
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case verbose:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		// 默认只显示警告以上
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config
}
