package api

import (
	"io"

	"github.com/labstack/gommon/log"
	logrus "github.com/sirupsen/logrus"
)

// echoLogger Echo의 log.Logger 인터페이스를 구현하는 어댑터입니다.
//
// Echo는 자체 Logger 인터페이스(github.com/labstack/gommon/log.Logger)를 정의하고 있으며,
// 이 어댑터를 통해 Echo 프레임워크의 내부 로그가 애플리케이션 로거(logrus)로 통합됩니다.
// 아래의 메서드들은 대부분 logrus의 해당 메서드로 단순 위임하는 보일러플레이트 코드입니다.
type echoLogger struct {
	logger *logrus.Logger
}

func (l echoLogger) Output() io.Writer {
	return l.logger.Out
}

func (l echoLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

func (l echoLogger) Prefix() string {
	return ""
}

func (l echoLogger) SetPrefix(string) {
	// Echo의 Prefix 기능은 사용하지 않음
}

// Level logrus의 로그 레벨을 Echo의 로그 레벨로 변환합니다.
func (l echoLogger) Level() log.Lvl {
	switch l.logger.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return log.DEBUG
	case logrus.InfoLevel:
		return log.INFO
	case logrus.WarnLevel:
		return log.WARN
	case logrus.ErrorLevel:
		return log.ERROR
	}
	return log.OFF
}

// SetLevel Echo의 로그 레벨을 logrus의 로그 레벨로 변환하여 설정합니다.
func (l echoLogger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.logger.SetLevel(logrus.DebugLevel)
	case log.INFO:
		l.logger.SetLevel(logrus.InfoLevel)
	case log.WARN:
		l.logger.SetLevel(logrus.WarnLevel)
	case log.ERROR:
		l.logger.SetLevel(logrus.ErrorLevel)
	case log.OFF:
		// logrus에 대응하는 레벨이 없으므로 무시
	}
}

func (l echoLogger) SetHeader(string) {
	// Echo의 Header 기능은 사용하지 않음
}

func (l echoLogger) Print(i ...interface{}) {
	l.logger.Print(i...)
}

func (l echoLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}

func (l echoLogger) Printj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Print()
}

func (l echoLogger) Debug(i ...interface{}) {
	l.logger.Debug(i...)
}

func (l echoLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l echoLogger) Debugj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Debug()
}

func (l echoLogger) Info(i ...interface{}) {
	l.logger.Info(i...)
}

func (l echoLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l echoLogger) Infoj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Info()
}

func (l echoLogger) Warn(i ...interface{}) {
	l.logger.Warn(i...)
}

func (l echoLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l echoLogger) Warnj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Warn()
}

func (l echoLogger) Error(i ...interface{}) {
	l.logger.Error(i...)
}

func (l echoLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l echoLogger) Errorj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Error()
}

func (l echoLogger) Fatal(i ...interface{}) {
	l.logger.Fatal(i...)
}

func (l echoLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}

func (l echoLogger) Fatalj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Fatal()
}

func (l echoLogger) Panic(i ...interface{}) {
	l.logger.Panic(i...)
}

func (l echoLogger) Panicf(format string, args ...interface{}) {
	l.logger.Panicf(format, args...)
}

func (l echoLogger) Panicj(j log.JSON) {
	l.logger.WithFields(logrus.Fields(j)).Panic()
}
