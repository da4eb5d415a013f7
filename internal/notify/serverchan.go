package notify

import (
	"context"
	"fmt"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
)

// serverChanSender ServerChan(Server酱) 푸시 서비스 채널입니다.
// SendKey가 URL 경로에 포함되는 key-scoped 엔드포인트를 사용합니다.
type serverChanSender struct {
	cfg     config.ServerChanConfig
	fetcher Fetcher
}

func newServerChanSender(cfg config.ServerChanConfig, fetcher Fetcher) *serverChanSender {
	return &serverChanSender{cfg: cfg, fetcher: fetcher}
}

func (s *serverChanSender) Name() string {
	return ChannelServerChan
}

func (s *serverChanSender) Send(ctx context.Context, title, content string) error {
	if s.cfg.SendKey == "" {
		return apperrors.New(apperrors.Configuration, "ServerChan SendKey가 설정되지 않았습니다")
	}

	url := fmt.Sprintf("https://sctapi.ftqq.com/%s.send", s.cfg.SendKey)
	payload := map[string]any{
		"title": title,
		"desp":  content,
	}

	body, err := postJSON(ctx, s.fetcher, ChannelServerChan, url, payload)
	if err != nil {
		return err
	}

	return checkServiceCode(ChannelServerChan, body, 0)
}
