package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	"github.com/darkkaiser/notify-dispatcher/internal/notify"
	"github.com/darkkaiser/notify-dispatcher/internal/pkg/version"
	applog "github.com/darkkaiser/notify-dispatcher/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
const shutdownTimeout = 5 * time.Second

// Service 알림 발송 API 서버의 생명주기를 관리하는 서비스입니다.
//
// Echo 기반 HTTP 서버의 시작과 종료, Graceful Shutdown을 담당하며,
// 서비스는 고루틴으로 실행되고 context를 통해 종료 신호를 받습니다.
type Service struct {
	appConfig *config.AppConfig

	dispatcher *notify.Dispatcher

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, dispatcher *notify.Dispatcher, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("appConfig는 필수입니다")
	}
	if dispatcher == nil {
		panic("dispatcher는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		dispatcher: dispatcher,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다.
//
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
// serviceStopCtx가 취소되면 Graceful Shutdown(5초 타임아웃)을 수행한 후
// serviceStopWG에 완료를 알립니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(componentService).Info("API 서비스를 시작합니다.")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(componentService).Warn("API 서비스가 이미 시작된 상태입니다.")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 핸들러와 라우트를 설정합니다.
func (s *Service) setupServer() *echo.Echo {
	requestTimeout, err := time.ParseDuration(s.appConfig.API.RequestTimeout)
	if err != nil || requestTimeout <= 0 {
		requestTimeout = 0 // NewHTTPServer가 기본값을 적용
	}

	e := NewHTTPServer(HTTPServerConfig{
		Debug:          s.appConfig.Debug,
		RequestTimeout: requestTimeout,
	})

	SetupRoutes(e, NewHandler(s.dispatcher, s.buildInfo))

	return e
}

// startHTTPServer HTTP 서버를 시작합니다.
// 이 함수는 블로킹되며, 서버가 종료되면 done 채널을 닫아 신호를 보냅니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields(componentService, log.Fields{
		"port": port,
	}).Info("HTTP 서버를 시작합니다.")

	err := e.Start(fmt.Sprintf(":%d", port))

	if err == nil || errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(componentService).Info("HTTP 서버가 중지되었습니다.")
		return
	}

	applog.WithComponentAndFields(componentService, log.Fields{
		"port":  port,
		"error": err,
	}).Error("HTTP 서버 실행중에 치명적인 오류가 발생하였습니다.")
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(componentService).Info("API 서비스를 중지합니다.")
	case <-httpServerDone:
		// HTTP 서버가 예기치 않게 종료됨 (포트 바인딩 실패 등)
		applog.WithComponent(componentService).Error("HTTP 서버가 예기치 않게 종료되었습니다.")

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(componentService, log.Fields{
			"error": err,
		}).Error("HTTP 서버 종료중에 오류가 발생하였습니다.")
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(componentService).Info("API 서비스가 중지되었습니다.")
}
