package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	"github.com/darkkaiser/notify-dispatcher/internal/notify"
	"github.com/darkkaiser/notify-dispatcher/internal/pkg/version"
	"github.com/darkkaiser/notify-dispatcher/internal/service/api"
	applog "github.com/darkkaiser/notify-dispatcher/pkg/log"
	log "github.com/sirupsen/logrus"
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	appLogCloser := applog.Setup(applog.Options{
		AppName:    config.AppName,
		LogDir:     appConfig.Log.Dir,
		Debug:      appConfig.Debug,
		MaxAgeDays: appConfig.Log.MaxAgeDays,
	})
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 발송 파이프라인과 API 서비스를 생성한다.
	dispatcher := notify.NewDispatcher(appConfig.Channels, notify.NewHTTPFetcher())
	apiService := api.NewService(appConfig, dispatcher, buildInfo)

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	serviceStopWG.Add(1)
	if err := apiService.Start(serviceStopCtx, serviceStopWG); err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Error("서비스 초기화 실패")

		cancel()
		serviceStopWG.Wait()

		log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()
	serviceStopWG.Wait()
}
