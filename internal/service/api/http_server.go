package api

import (
	"time"

	applog "github.com/darkkaiser/notify-dispatcher/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 70 * time.Second
	defaultIdleTimeout       = 120 * time.Second

	// defaultRequestTimeout 요청 처리 시간 제한의 기본값.
	// 발송 라운드가 텔레그램 재시도(선형 백오프)를 포함할 수 있으므로 넉넉하게 설정합니다.
	defaultRequestTimeout = 60 * time.Second

	// defaultMaxBodySize 요청 본문 크기 제한 (대용량 요청으로 인한 메모리 고갈 방지)
	defaultMaxBodySize = "2M"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (0이면 기본값 60초)
	RequestTimeout time.Duration
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다 (순서가 중요합니다):
//  1. PanicRecovery - 핸들러의 panic을 복구하여 서버 다운 방지
//  2. RequestID - 요청 추적용 고유 ID 부여 (X-Request-ID 헤더)
//  3. HTTPLogger - 요청/응답의 구조화된 로깅 (민감 쿼리 파라미터 마스킹)
//  4. BodyLimit - 요청 본문 크기 제한 (초과 시 413 응답)
//  5. Timeout - 요청 처리 시간 제한 (초과 시 503 응답)
//  6. Secure - 보안 헤더 자동 추가
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	// Echo 프레임워크의 내부 로그를 애플리케이션 로거로 통합합니다.
	e.Logger = echoLogger{logger: applog.StandardLogger()}

	e.HTTPErrorHandler = errorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	e.Use(panicRecovery())
	e.Use(middleware.RequestID())
	e.Use(httpLogger())
	e.Use(middleware.BodyLimit(defaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.Secure())

	return e
}
