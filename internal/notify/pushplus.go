package notify

import (
	"context"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// pushPlusEndpoint PushPlus 메시지 발송 엔드포인트
const pushPlusEndpoint = "http://www.pushplus.plus/send"

// pushPlusSender PushPlus 푸시 서비스 채널입니다.
type pushPlusSender struct {
	cfg     config.PushPlusConfig
	fetcher Fetcher
}

func newPushPlusSender(cfg config.PushPlusConfig, fetcher Fetcher) *pushPlusSender {
	return &pushPlusSender{cfg: cfg, fetcher: fetcher}
}

func (s *pushPlusSender) Name() string {
	return ChannelPushPlus
}

func (s *pushPlusSender) Send(ctx context.Context, title, content string) error {
	if s.cfg.Token == "" {
		return apperrors.New(apperrors.Configuration, "PushPlus 토큰이 설정되지 않았습니다")
	}

	payload := map[string]any{
		"token":    s.cfg.Token,
		"title":    title,
		"content":  content,
		"template": "html",
	}

	body, err := postJSON(ctx, s.fetcher, ChannelPushPlus, pushPlusEndpoint, payload)
	if err != nil {
		return err
	}

	// PushPlus는 HTTP 200 응답 내부의 code 필드로 성공(200) 여부를 표현합니다.
	return checkServiceCode(ChannelPushPlus, body, 200)
}

// checkServiceCode 웹훅 응답 JSON의 서비스 수준 응답 코드를 검사합니다.
// code 또는 errcode 필드를 순서대로 탐색하며, 필드가 없으면 성공으로 간주합니다.
func checkServiceCode(channel string, body []byte, successCode int64) error {
	result := gjson.GetBytes(body, "code")
	if !result.Exists() {
		result = gjson.GetBytes(body, "errcode")
	}
	if !result.Exists() {
		return nil
	}

	if result.Int() == successCode {
		return nil
	}

	// 서비스가 제공한 에러 설명을 함께 노출합니다.
	description := gjson.GetBytes(body, "msg").String()
	if description == "" {
		description = gjson.GetBytes(body, "errmsg").String()
	}
	if description == "" {
		description = gjson.GetBytes(body, "message").String()
	}

	if description != "" {
		return apperrors.Newf(apperrors.Service, "%s 서비스가 실패를 응답했습니다 (code: %d, %s)", channel, result.Int(), description)
	}
	return apperrors.Newf(apperrors.Service, "%s 서비스가 실패를 응답했습니다 (code: %d)", channel, result.Int())
}
