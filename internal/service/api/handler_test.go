package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/notify-dispatcher/internal/notify"
	"github.com/darkkaiser/notify-dispatcher/internal/pkg/version"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// 컴파일 타임에 dispatcher 인터페이스 구현 여부를 검증합니다.
var _ dispatcher = (*MockDispatcher)(nil)

// MockDispatcher 발송 라운드(dispatcher)의 Mock 구현체입니다.
type MockDispatcher struct {
	mock.Mock
}

func NewMockDispatcher(t *testing.T) *MockDispatcher {
	m := &MockDispatcher{}
	m.Test(t)
	return m
}

func (m *MockDispatcher) PushAll(ctx context.Context, title, content string) []notify.Outcome {
	args := m.Called(ctx, title, content)

	var outcomes []notify.Outcome
	if args.Get(0) != nil {
		outcomes = args.Get(0).([]notify.Outcome)
	}
	return outcomes
}

func (m *MockDispatcher) PushReport(ctx context.Context, report notify.Report) []notify.Outcome {
	args := m.Called(ctx, report)

	var outcomes []notify.Outcome
	if args.Get(0) != nil {
		outcomes = args.Get(0).([]notify.Outcome)
	}
	return outcomes
}

// newTestContext JSON 본문을 가진 테스트용 echo.Context를 생성합니다.
func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// TestHandler_DispatchHandler 일반 발송 요청의 처리와 채널별 결과 응답을 검증합니다.
func TestHandler_DispatchHandler(t *testing.T) {
	t.Run("정상 요청은 채널별 결과 목록을 반환한다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		outcomes := []notify.Outcome{
			{Channel: notify.ChannelPushPlus, OK: true},
			{Channel: notify.ChannelTelegram, OK: false, Err: "구성 오류"},
		}
		mockDispatcher.On("PushAll", mock.Anything, "공지", "본문").Return(outcomes).Once()

		c, rec := newTestContext(http.MethodPost, "/api/v1/dispatch", `{"title":"공지","content":"본문"}`)

		require.NoError(t, h.DispatchHandler(c))
		mockDispatcher.AssertExpectations(t)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.Bytes()
		assert.Equal(t, int64(2), gjson.GetBytes(body, "outcomes.#").Int())
		assert.Equal(t, "PushPlus", gjson.GetBytes(body, "outcomes.0.channel").String())
		assert.True(t, gjson.GetBytes(body, "outcomes.0.ok").Bool())
		assert.False(t, gjson.GetBytes(body, "outcomes.1.ok").Bool())
	})

	t.Run("제목과 본문이 모두 비어있으면 400을 반환한다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		c, _ := newTestContext(http.MethodPost, "/api/v1/dispatch", `{}`)

		err := h.DispatchHandler(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockDispatcher.AssertNotCalled(t, "PushAll")
	})

	t.Run("해석할 수 없는 본문은 400을 반환한다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		c, _ := newTestContext(http.MethodPost, "/api/v1/dispatch", `{invalid`)

		err := h.DispatchHandler(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

// TestHandler_CheckinHandler 체크인 리포트 요청의 처리와 유효성 검증을 검증합니다.
func TestHandler_CheckinHandler(t *testing.T) {
	t.Run("정상 리포트는 PushReport로 전달된다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		mockDispatcher.On("PushReport", mock.Anything, mock.MatchedBy(func(report notify.Report) bool {
			return report.SuccessCount == 1 && report.TotalCount == 2 && len(report.Results) == 2
		})).Return([]notify.Outcome{}).Once()

		body := `{
			"results": [
				{"name": "Account-1", "success": true, "balance": 25.5},
				{"name": "Account-2", "success": false, "error": "login failed"}
			],
			"success_count": 1,
			"total_count": 2,
			"execution_time": "2026-08-29 10:00:00"
		}`
		c, rec := newTestContext(http.MethodPost, "/api/v1/checkin", body)

		require.NoError(t, h.CheckinHandler(c))
		mockDispatcher.AssertExpectations(t)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("성공 수가 전체 수보다 크면 400을 반환한다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		c, _ := newTestContext(http.MethodPost, "/api/v1/checkin", `{"success_count":3,"total_count":2}`)

		err := h.CheckinHandler(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockDispatcher.AssertNotCalled(t, "PushReport")
	})

	t.Run("음수 카운트는 400을 반환한다", func(t *testing.T) {
		mockDispatcher := NewMockDispatcher(t)
		h := NewHandler(mockDispatcher, version.Info{})

		c, _ := newTestContext(http.MethodPost, "/api/v1/checkin", `{"success_count":-1,"total_count":2}`)

		err := h.CheckinHandler(c)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

// TestHandler_HealthCheckHandler 헬스체크 응답의 형식을 검증합니다.
func TestHandler_HealthCheckHandler(t *testing.T) {
	h := NewHandler(NewMockDispatcher(t), version.Info{})

	c, rec := newTestContext(http.MethodGet, "/health", "")

	require.NoError(t, h.HealthCheckHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.Bytes()
	assert.Equal(t, "healthy", gjson.GetBytes(body, "status").String())
	assert.GreaterOrEqual(t, gjson.GetBytes(body, "uptime").Int(), int64(0))
}

// TestHandler_VersionHandler 버전 정보 응답을 검증합니다.
func TestHandler_VersionHandler(t *testing.T) {
	buildInfo := version.Info{Version: "v1.2.3", Commit: "f25b8bf"}
	h := NewHandler(NewMockDispatcher(t), buildInfo)

	c, rec := newTestContext(http.MethodGet, "/version", "")

	require.NoError(t, h.VersionHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.Bytes()
	assert.Equal(t, "v1.2.3", gjson.GetBytes(body, "version").String())
	assert.Equal(t, "f25b8bf", gjson.GetBytes(body, "commit").String())
}

// TestNewHandler_NilDispatcher dispatcher 없이 핸들러를 생성하면 패닉이 발생하는지 검증합니다.
func TestNewHandler_NilDispatcher(t *testing.T) {
	assert.Panics(t, func() {
		NewHandler(nil, version.Info{})
	})
}
