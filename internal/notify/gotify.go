package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
)

// gotifyPriority 우선순위의 유효 범위 (Gotify 프로토콜 기준)
const (
	gotifyPriorityMin = 1
	gotifyPriorityMax = 10
)

// gotifySender Gotify 푸시 게이트웨이 채널입니다.
// 토큰은 쿼리 파라미터로 전달되는 token-scoped URL 방식을 사용합니다.
type gotifySender struct {
	cfg     config.GotifyConfig
	fetcher Fetcher
}

func newGotifySender(cfg config.GotifyConfig, fetcher Fetcher) *gotifySender {
	return &gotifySender{cfg: cfg, fetcher: fetcher}
}

func (s *gotifySender) Name() string {
	return ChannelGotify
}

func (s *gotifySender) Send(ctx context.Context, title, content string) error {
	if s.cfg.URL == "" || s.cfg.Token == "" {
		return apperrors.New(apperrors.Configuration, "Gotify URL 또는 토큰이 설정되지 않았습니다")
	}

	// 우선순위를 유효 범위(1-10)로 보정합니다.
	priority := s.cfg.Priority
	if priority < gotifyPriorityMin {
		priority = gotifyPriorityMin
	}
	if priority > gotifyPriorityMax {
		priority = gotifyPriorityMax
	}

	payload := map[string]any{
		"title":    title,
		"message":  content,
		"priority": priority,
	}

	endpoint := fmt.Sprintf("%s?token=%s", s.cfg.URL, url.QueryEscape(s.cfg.Token))
	_, err := postJSON(ctx, s.fetcher, ChannelGotify, endpoint, payload)
	return err
}
