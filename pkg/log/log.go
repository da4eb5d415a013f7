// Package log logrus 기반의 애플리케이션 전역 로깅 시스템을 제공합니다.
//
// 모든 로그에 component 필드를 일관되게 추가하기 위한 헬퍼와,
// lumberjack을 이용한 로그 파일 로테이션 기능을 포함합니다.
package log

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// 생성되는 로그 파일의 기본 확장자
	fileExt = "log"

	// 기본 로그 로테이션 정책
	defaultMaxSizeMB  = 100 // 로그 파일 하나당 최대 크기 (단위: MB)
	defaultMaxBackups = 20  // 로테이션 된 로그 파일의 최대 보관 개수
)

// Fields logrus.Fields의 별칭입니다.
type Fields = log.Fields

// Options 로깅 시스템 초기화 옵션입니다.
type Options struct {
	// AppName 로그 파일명의 prefix로 사용되는 애플리케이션 이름
	AppName string

	// LogDir 로그 파일이 저장될 디렉토리 (빈 문자열이면 파일 출력 비활성화, 콘솔만 사용)
	LogDir string

	// Debug Debug 레벨 로그 활성화 여부
	Debug bool

	// MaxAgeDays 로테이션 된 로그 파일의 최대 보관 일수 (0이면 무제한)
	MaxAgeDays int
}

var (
	// Setup() 함수의 중복 호출을 방지하기 위한 동기화 객체
	setupOnce sync.Once

	// 최초 초기화 시 생성된 Closer를 유지하여, Setup 재호출 시 동일한 인스턴스를 반환합니다.
	globalCloser io.Closer
)

// nopCloser 파일 출력이 비활성화된 경우 반환되는 빈 Closer입니다.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup 전역 로깅 시스템을 초기화합니다.
//
// 애플리케이션 시작 시점(main 함수 도입부)에 호출하는 것을 권장하며,
// 반환된 Closer는 defer를 통해 리소스가 해제되도록 보장해야 합니다.
func Setup(opts Options) io.Closer {
	setupOnce.Do(func() {
		globalCloser = setupInternal(opts)
	})

	return globalCloser
}

func setupInternal(opts Options) io.Closer {
	SetDebugMode(opts.Debug)

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			return function, ""
		},
	})

	if opts.LogDir == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	// 로그 파일 로테이션 설정 (lumberjack)
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.LogDir, opts.AppName+"."+fileExt),
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
		Compress:   true,
	}

	// 콘솔과 파일에 동시에 기록합니다.
	log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))

	return fileWriter
}

// SetDebugMode Debug 모드 활성화 여부에 따라 로그 레벨을 조정합니다.
func SetDebugMode(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
}

// StandardLogger 전역 logrus 로거를 반환합니다.
func StandardLogger() *log.Logger {
	return log.StandardLogger()
}

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 모든 로그에 component 필드를 일관되게 추가하기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithFields(log.Fields{
		"component": component,
	})
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	newFields := make(log.Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return log.WithFields(newFields)
}

// MaskSensitiveData 민감한 정보를 마스킹합니다.
// 토큰, 키 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 토큰은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}
