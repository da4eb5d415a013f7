// Package notify 설정된 모든 알림 채널로의 발송(fan-out)을 담당합니다.
//
// 각 채널은 Sender 인터페이스의 독립적인 구현체이며, Dispatcher가 고정된 순서로
// 순회하면서 발송을 시도합니다. 한 채널의 실패는 다른 채널의 발송을 차단하거나
// 오염시키지 않습니다.
package notify

import "context"

// 채널 이름 상수. Dispatcher의 발송 순서 및 DeliveryOutcome의 식별자로 사용됩니다.
const (
	ChannelEmail      = "Email"
	ChannelPushPlus   = "PushPlus"
	ChannelServerChan = "ServerChan"
	ChannelDingTalk   = "DingTalk"
	ChannelFeishu     = "Feishu"
	ChannelWeCom      = "WeCom"
	ChannelGotify     = "Gotify"
	ChannelTelegram   = "Telegram"
)

// Sender 단일 알림 채널의 발송 동작을 추상화한 인터페이스입니다.
//
// 구현체는 매 호출 시점에 자신의 설정 유효성을 다시 검사해야 하며,
// 필수 설정이 비어있는 경우 네트워크 요청 없이 Configuration 에러를 반환해야 합니다.
type Sender interface {
	// Name 채널의 표시 이름을 반환합니다.
	Name() string

	// Send 제목과 본문을 해당 채널로 발송합니다.
	Send(ctx context.Context, title, content string) error
}

// Outcome 한 번의 발송 라운드에서 채널 하나가 반환한 성공/실패 기록입니다.
// 발송 라운드 동안에만 존재하며 어디에도 저장되지 않습니다.
type Outcome struct {
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Err     string `json:"error,omitempty"`
}
