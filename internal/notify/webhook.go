package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
)

// maxResponseBodySize 웹훅 응답 본문을 읽을 때의 상한입니다.
// 서비스 수준 응답 코드 판별에는 작은 JSON만 필요하므로 과도한 읽기를 방지합니다.
const maxResponseBodySize = 64 * 1024

// postJSON 주어진 URL로 JSON 페이로드를 POST하고 응답 본문을 반환합니다.
//
// 에러 분류 규칙:
//   - 네트워크 수준 실패(연결 실패, 타임아웃 등) → Transport
//   - 400/401/403 응답 → Rejected (재시도 무의미)
//   - 그 외 4xx/5xx 응답 → Service
//
// 단순 채널은 재시도를 수행하지 않으므로 이 분류는 에러 보고의 명확성을 위한 것입니다.
func postJSON(ctx context.Context, fetcher Fetcher, channel, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "%s 페이로드 직렬화에 실패했습니다", channel)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "%s 요청 생성에 실패했습니다", channel)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := fetcher.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Transport, "%s 웹훅 요청이 실패했습니다", channel)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Transport, "%s 응답 본문을 읽지 못했습니다", channel)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errType := apperrors.Service
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			errType = apperrors.Rejected
		}
		return nil, apperrors.Newf(errType, "%s 서비스가 요청을 거부했습니다 (HTTP %s)", channel, resp.Status)
	}

	return respBody, nil
}

// textWebhookSender msgtype/text.content 형태의 페이로드를 사용하는 웹훅 봇 채널입니다.
// 딩톡(DingTalk)과 위컴(WeCom) 두 서비스가 동일한 형태를 공유합니다.
type textWebhookSender struct {
	name       string
	webhookURL string
	fetcher    Fetcher
}

func newDingTalkSender(cfg config.WebhookConfig, fetcher Fetcher) *textWebhookSender {
	return &textWebhookSender{name: ChannelDingTalk, webhookURL: cfg.WebhookURL, fetcher: fetcher}
}

func newWeComSender(cfg config.WebhookConfig, fetcher Fetcher) *textWebhookSender {
	return &textWebhookSender{name: ChannelWeCom, webhookURL: cfg.WebhookURL, fetcher: fetcher}
}

func (s *textWebhookSender) Name() string {
	return s.name
}

func (s *textWebhookSender) Send(ctx context.Context, title, content string) error {
	if s.webhookURL == "" {
		return apperrors.Newf(apperrors.Configuration, "%s 웹훅 URL이 설정되지 않았습니다", s.name)
	}

	payload := map[string]any{
		"msgtype": "text",
		"text": map[string]any{
			"content": fmt.Sprintf("%s\n%s", title, content),
		},
	}

	body, err := postJSON(ctx, s.fetcher, s.name, s.webhookURL, payload)
	if err != nil {
		return err
	}

	// 딩톡과 위컴 모두 errcode 0을 성공으로 응답합니다.
	return checkServiceCode(s.name, body, 0)
}
