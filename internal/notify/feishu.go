package notify

import (
	"context"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
)

// feishuSender 페이슈(Feishu/Lark) 인터랙티브 카드 웹훅 채널입니다.
type feishuSender struct {
	cfg     config.WebhookConfig
	fetcher Fetcher
}

func newFeishuSender(cfg config.WebhookConfig, fetcher Fetcher) *feishuSender {
	return &feishuSender{cfg: cfg, fetcher: fetcher}
}

func (s *feishuSender) Name() string {
	return ChannelFeishu
}

func (s *feishuSender) Send(ctx context.Context, title, content string) error {
	if s.cfg.WebhookURL == "" {
		return apperrors.New(apperrors.Configuration, "Feishu 웹훅 URL이 설정되지 않았습니다")
	}

	// 인터랙티브 카드 형식: 본문은 markdown 요소로, 제목은 카드 헤더로 전달합니다.
	payload := map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"elements": []map[string]any{
				{
					"tag":        "markdown",
					"content":    content,
					"text_align": "left",
				},
			},
			"header": map[string]any{
				"template": "blue",
				"title": map[string]any{
					"content": title,
					"tag":     "plain_text",
				},
			},
		},
	}

	body, err := postJSON(ctx, s.fetcher, ChannelFeishu, s.cfg.WebhookURL, payload)
	if err != nil {
		return err
	}

	return checkServiceCode(ChannelFeishu, body, 0)
}
