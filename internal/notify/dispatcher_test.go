package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	"github.com/darkkaiser/notify-dispatcher/internal/notify/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// expectedChannelOrder Dispatcher가 보장하는 고정 채널 순서
var expectedChannelOrder = []string{
	ChannelEmail,
	ChannelPushPlus,
	ChannelServerChan,
	ChannelDingTalk,
	ChannelFeishu,
	ChannelWeCom,
	ChannelGotify,
	ChannelTelegram,
}

// TestDispatcher_PushAll_AllChannelsReported 설정이 전부 비어있더라도
// 모든 채널의 Outcome이 고정된 순서로 빠짐없이 보고되는지 검증합니다.
func TestDispatcher_PushAll_AllChannelsReported(t *testing.T) {
	mockFetcher := NewMockFetcher(t)
	d := NewDispatcher(config.ChannelsConfig{}, mockFetcher)

	outcomes := d.PushAll(context.Background(), "title", "content")

	require.Len(t, outcomes, len(expectedChannelOrder))
	for i, outcome := range outcomes {
		assert.Equal(t, expectedChannelOrder[i], outcome.Channel)
		assert.False(t, outcome.OK, "설정이 비어있는 채널은 실패로 보고되어야 합니다. (channel:%s)", outcome.Channel)
		assert.NotEmpty(t, outcome.Err)
	}

	// 설정이 비어있는 채널은 네트워크 요청을 전혀 시도하지 않아야 함
	mockFetcher.AssertNotCalled(t, "Do")
}

// TestDispatcher_PushAll_ChannelIsolation 한 채널의 실패가
// 다른 채널의 발송을 막지 않는지 검증합니다.
func TestDispatcher_PushAll_ChannelIsolation(t *testing.T) {
	mockFetcher := NewMockFetcher(t)

	// 채널 순서상 PushPlus가 먼저 호출되므로, 첫 번째 요청은 네트워크 수준 실패,
	// 뒤이은 ServerChan의 요청은 성공으로 응답합니다.
	mockFetcher.On("Do", mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()
	mockFetcher.On("Do", mock.Anything).
		Return(jsonResponse(200, `{"code":0}`), nil).Once()

	d := NewDispatcher(config.ChannelsConfig{
		PushPlus:   config.PushPlusConfig{Token: "pp-token"},
		ServerChan: config.ServerChanConfig{SendKey: "SCT12345"},
	}, mockFetcher)

	outcomes := d.PushAll(context.Background(), "title", "content")

	require.Len(t, outcomes, len(expectedChannelOrder))

	byChannel := make(map[string]Outcome, len(outcomes))
	for _, outcome := range outcomes {
		byChannel[outcome.Channel] = outcome
	}

	assert.False(t, byChannel[ChannelPushPlus].OK, "PushPlus는 네트워크 실패로 보고되어야 합니다.")
	assert.True(t, byChannel[ChannelServerChan].OK, "PushPlus의 실패가 ServerChan의 발송을 막아서는 안됩니다.")
	mockFetcher.AssertExpectations(t)
}

// panicSender 발송 시 항상 패닉을 일으키는 테스트용 채널입니다.
type panicSender struct{}

func (s *panicSender) Name() string { return "Panic" }

func (s *panicSender) Send(ctx context.Context, title, content string) error {
	panic("unexpected channel failure")
}

// TestDispatcher_PushAll_PanicRecovery 채널 구현체의 패닉이 recover되어
// 해당 채널의 실패 Outcome으로 변환되는지 검증합니다.
func TestDispatcher_PushAll_PanicRecovery(t *testing.T) {
	okSender := &stubSender{name: "Stub"}
	d := &Dispatcher{senders: []Sender{&panicSender{}, okSender}}

	var outcomes []Outcome
	require.NotPanics(t, func() {
		outcomes = d.PushAll(context.Background(), "title", "content")
	})

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK)
	assert.Contains(t, outcomes[0].Err, "panic")
	assert.True(t, outcomes[1].OK, "패닉이 발생한 채널 이후의 채널도 정상적으로 발송되어야 합니다.")
}

// stubSender 항상 성공하는 테스트용 채널입니다.
type stubSender struct {
	name      string
	callCount int
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(ctx context.Context, title, content string) error {
	s.callCount++
	return nil
}

// TestDispatcher_PushReport_TelegramSuppression 전체 성공 리포트의 발송 생략은
// 텔레그램 채널에만 적용되고 단순 채널의 발송 시도에는 영향을 주지 않는지 검증합니다.
func TestDispatcher_PushReport_TelegramSuppression(t *testing.T) {
	mockFetcher := NewMockFetcher(t)
	d := NewDispatcher(config.ChannelsConfig{}, mockFetcher)

	report := Report{
		Results:      []format.Result{{Name: "Account-1", Success: true}},
		SuccessCount: 1,
		TotalCount:   1,
	}

	outcomes := d.PushReport(context.Background(), report)

	require.Len(t, outcomes, len(expectedChannelOrder))

	byChannel := make(map[string]Outcome, len(outcomes))
	for _, outcome := range outcomes {
		byChannel[outcome.Channel] = outcome
	}

	// 텔레그램은 전체 성공으로 발송이 생략되어 성공으로 보고됨
	assert.True(t, byChannel[ChannelTelegram].OK)
	// 단순 채널은 발송이 시도되지만 설정이 비어있어 실패로 보고됨
	assert.False(t, byChannel[ChannelPushPlus].OK)
}

// TestDispatcher_PushReport_SimpleChannelsReceiveFormattedReport 단순 채널이
// 포맷된 리포트 본문을 수신하는지 검증합니다.
func TestDispatcher_PushReport_SimpleChannelsReceiveFormattedReport(t *testing.T) {
	mockFetcher := NewMockFetcher(t)

	var body []byte
	mockFetcher.On("Do", mock.Anything).Run(captureBody(&body)).
		Return(jsonResponse(200, `{"code":200}`), nil).Once()

	d := NewDispatcher(config.ChannelsConfig{
		PushPlus: config.PushPlusConfig{Token: "pp-token"},
	}, mockFetcher)

	report := Report{
		Results:      []format.Result{{Name: "Account-1", Success: false, Error: "login failed"}},
		SuccessCount: 0,
		TotalCount:   1,
	}

	d.PushReport(context.Background(), report)

	mockFetcher.AssertExpectations(t)
	assert.Contains(t, gjson.GetBytes(body, "title").String(), format.ReportTitle)
	assert.Contains(t, gjson.GetBytes(body, "content").String(), "Account-1")
	assert.Contains(t, gjson.GetBytes(body, "content").String(), "login failed")
}

// TestDispatcher_PushAll_DeterministicOrder 동일한 설정에 대해
// Outcome의 순서가 항상 동일한지 검증합니다.
func TestDispatcher_PushAll_DeterministicOrder(t *testing.T) {
	mockFetcher := NewMockFetcher(t)
	d := NewDispatcher(config.ChannelsConfig{}, mockFetcher)

	first := d.PushAll(context.Background(), "title", "content")
	second := d.PushAll(context.Background(), "title", "content")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Channel, second[i].Channel)
	}
}
