package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes API 서비스의 라우트를 등록합니다.
//
// 시스템 엔드포인트(/health, /version, /metrics)는 인증 없이 접근 가능하며,
// 발송 엔드포인트는 /api/v1 그룹으로 제공됩니다.
func SetupRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/dispatch", h.DispatchHandler)
	v1.POST("/checkin", h.CheckinHandler)
}
