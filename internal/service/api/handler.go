// Package api 알림 발송 REST API 서버를 제공합니다.
//
// 엔드포인트:
//   - POST /api/v1/dispatch: 제목/본문 쌍을 모든 채널로 발송
//   - POST /api/v1/checkin: 체크인 리포트를 포맷하여 모든 채널로 발송
//   - GET  /health: 서버 상태 확인
//   - GET  /version: 빌드 정보 조회
//   - GET  /metrics: Prometheus 메트릭
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/notify"
	"github.com/darkkaiser/notify-dispatcher/internal/pkg/version"
	"github.com/labstack/echo/v4"
)

// 로그의 component 필드 값
const (
	componentService      = "api.service"
	componentHandler      = "api.handler"
	componentMiddleware   = "api.middleware"
	componentErrorHandler = "api.errorhandler"
)

// dispatcher 알림 발송 라운드를 수행하는 인터페이스입니다.
// 테스트에서 Mock으로 대체하기 위해 Dispatcher의 발송 표면만 추상화합니다.
type dispatcher interface {
	PushAll(ctx context.Context, title, content string) []notify.Outcome
	PushReport(ctx context.Context, report notify.Report) []notify.Outcome
}

// Handler 알림 발송 API 핸들러입니다.
type Handler struct {
	dispatcher dispatcher

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(d dispatcher, buildInfo version.Info) *Handler {
	if d == nil {
		panic("dispatcher는 필수입니다")
	}

	return &Handler{
		dispatcher: d,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// DispatchRequest 일반 알림 발송 요청입니다.
type DispatchRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DispatchResponse 발송 라운드의 채널별 결과 응답입니다.
type DispatchResponse struct {
	Outcomes []notify.Outcome `json:"outcomes"`
}

// DispatchHandler 제목/본문 쌍을 모든 채널로 발송합니다.
//
// 일부 채널이 실패하더라도 응답은 항상 200이며, 채널별 성공/실패는
// outcomes 목록으로 보고됩니다.
func (h *Handler) DispatchHandler(c echo.Context) error {
	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return newBadRequestError("요청 본문을 해석할 수 없습니다.")
	}

	if req.Title == "" && req.Content == "" {
		return newBadRequestError("제목 또는 본문 중 하나는 필수입니다.")
	}

	outcomes := h.dispatcher.PushAll(c.Request().Context(), req.Title, req.Content)

	return c.JSON(http.StatusOK, DispatchResponse{Outcomes: outcomes})
}

// CheckinHandler 체크인 리포트를 포맷하여 모든 채널로 발송합니다.
func (h *Handler) CheckinHandler(c echo.Context) error {
	var report notify.Report
	if err := c.Bind(&report); err != nil {
		return newBadRequestError("요청 본문을 해석할 수 없습니다.")
	}

	if report.TotalCount < 0 || report.SuccessCount < 0 {
		return newBadRequestError("성공/전체 작업 수는 음수일 수 없습니다.")
	}
	if report.SuccessCount > report.TotalCount {
		return newBadRequestError("성공한 작업 수가 전체 작업 수보다 클 수 없습니다.")
	}

	outcomes := h.dispatcher.PushReport(c.Request().Context(), report)

	return c.JSON(http.StatusOK, DispatchResponse{Outcomes: outcomes})
}

// HealthResponse 헬스체크 응답입니다.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime"`
}

// HealthCheckHandler 서버의 상태를 반환합니다. 인증 없이 호출 가능하며
// 모니터링 시스템에서 사용됩니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: int64(time.Since(h.serverStartTime).Seconds()),
	})
}

// VersionHandler 애플리케이션의 빌드 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
