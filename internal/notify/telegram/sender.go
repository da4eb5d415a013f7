package telegram

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/notify/format"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	applog "github.com/darkkaiser/notify-dispatcher/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const (
	endpointSendMessage = "sendMessage"
	endpointSendPhoto   = "sendPhoto"
)

// Send notify.Sender 인터페이스 구현입니다. 제목을 굵게 표시한 텍스트 메시지를 발송합니다.
func (c *Client) Send(ctx context.Context, title, content string) error {
	return c.SendText(ctx, fmt.Sprintf("<b>%s</b>\n\n%s", title, content))
}

// SendText 모든 수신자에게 텍스트 메시지를 발송합니다.
//
// 수신자별로 순차 발송하며, 한 수신자의 실패가 남은 수신자의 발송을 막지 않습니다.
// 하나 이상의 수신자가 실패한 경우 첫 번째 실패 오류가 반환됩니다.
func (c *Client) SendText(ctx context.Context, message string) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	bot, err := c.ensureBot()
	if err != nil {
		return err
	}

	var firstErr error
	for _, chatID := range c.chatIDs {
		params := c.messageParams(chatID)
		params["text"] = message
		if c.disableLinkPreview {
			params["disable_web_page_preview"] = "true"
		}

		if err := c.sendWithRetry(ctx, chatID, func() error {
			_, err := bot.MakeRequest(endpointSendMessage, params)
			return err
		}); err != nil {
			applog.WithComponent(component).WithFields(log.Fields{
				"chat_id": chatID,
			}).Errorf("텔레그램 메시지 발송이 실패하였습니다. (error:%s)", err)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// SendPhoto 모든 수신자에게 사진을 발송합니다. caption은 비어 있을 수 있습니다.
// 파일을 읽을 수 없는 경우 네트워크 요청 없이 즉시 실패합니다.
func (c *Client) SendPhoto(ctx context.Context, photoPath, caption string) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	fi, err := os.Stat(photoPath)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "사진 파일을 읽을 수 없습니다 (path:%s)", photoPath)
	}
	if fi.IsDir() {
		return apperrors.Newf(apperrors.InvalidInput, "사진 경로가 파일이 아닙니다 (path:%s)", photoPath)
	}

	bot, err := c.ensureBot()
	if err != nil {
		return err
	}

	var firstErr error
	for _, chatID := range c.chatIDs {
		params := c.messageParams(chatID)
		if caption != "" {
			params["caption"] = caption
		}
		files := []tgbotapi.RequestFile{{
			Name: "photo",
			Data: tgbotapi.FilePath(photoPath),
		}}

		if err := c.sendWithRetry(ctx, chatID, func() error {
			_, err := bot.UploadFiles(endpointSendPhoto, params, files)
			return err
		}); err != nil {
			applog.WithComponent(component).WithFields(log.Fields{
				"chat_id": chatID,
			}).Errorf("텔레그램 사진 발송이 실패하였습니다. (error:%s)", err)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// SendEnhanced 작업 실행 결과 목록을 리포트 메시지로 포매팅하여 발송합니다.
//
// 모든 작업이 성공하고 성공 알림이 비활성화되어 있으며 잔액 변동도 없는 경우에는
// 발송을 생략합니다. 스크린샷 경로가 주어지면 텍스트 발송 후 추가로 사진을
// 발송하되, 사진 발송 실패는 기록만 하고 텍스트 발송 결과에 영향을 주지 않습니다.
func (c *Client) SendEnhanced(ctx context.Context, results []format.Result, successCount, totalCount int, executionTime string, balanceChanged bool, screenshotPath string) error {
	if successCount == totalCount && !c.notifyOnSuccess && !balanceChanged {
		applog.WithComponent(component).Debug("모든 작업이 성공하여 알림 발송을 생략합니다.")
		return nil
	}

	message := format.Format(results, successCount, totalCount, executionTime, balanceChanged)
	err := c.SendText(ctx, message)

	if screenshotPath != "" {
		if photoErr := c.SendPhoto(ctx, screenshotPath, ""); photoErr != nil {
			applog.WithComponent(component).Warnf("스크린샷 발송이 실패하였습니다. (error:%s)", photoErr)
		}
	}

	return err
}

// sendWithRetry 단일 수신자에 대한 요청을 재시도 정책에 따라 수행합니다.
//
// 대기 시간은 선형으로 증가하며(retryDelay * 시도 횟수), 서버가 retry_after로
// 더 긴 대기를 요구하는 경우 그 값을 따릅니다. 클라이언트 측 오류(400, 401, 403)는
// 재시도 없이 즉시 실패합니다.
func (c *Client) sendWithRetry(ctx context.Context, chatID string, call func() error) error {
	var lastErr error

	for attempt := 1; attempt <= c.retryCount; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 발송이 취소되었습니다")
		}

		err := call()
		if err == nil {
			if attempt > 1 {
				applog.WithComponent(component).WithFields(log.Fields{
					"chat_id": chatID,
					"attempt": attempt,
				}).Info("텔레그램 발송이 재시도 끝에 성공하였습니다.")
			}
			return nil
		}

		code, retryAfter := parseAPIError(err)

		if isFatalStatus(code) {
			return apperrors.Wrapf(err, apperrors.Rejected, "텔레그램 API가 요청을 거부하였습니다 (status:%d)", code)
		}

		if code == 0 {
			lastErr = apperrors.Wrap(err, apperrors.Transport, "텔레그램 API 요청이 실패했습니다")
		} else {
			lastErr = apperrors.Wrapf(err, apperrors.Service, "텔레그램 API가 오류를 응답하였습니다 (status:%d)", code)
		}

		if attempt == c.retryCount {
			break
		}

		delay := c.retryDelay * time.Duration(attempt)
		if serverDelay := time.Duration(retryAfter) * time.Second; serverDelay > delay {
			delay = serverDelay
		}

		applog.WithComponent(component).WithFields(log.Fields{
			"chat_id": chatID,
			"attempt": attempt,
			"delay":   delay.String(),
		}).Warnf("텔레그램 발송이 실패하여 재시도합니다. (error:%s)", err)

		select {
		case <-ctx.Done():
			return apperrors.Wrap(ctx.Err(), apperrors.Timeout, "텔레그램 발송이 취소되었습니다")
		case <-time.After(delay):
		}
	}

	applog.WithComponent(component).WithFields(log.Fields{
		"chat_id": chatID,
		"retries": c.retryCount,
	}).Error("텔레그램 발송이 최대 재시도 횟수를 초과하였습니다.")

	return lastErr
}

// parseAPIError 텔레그램 API 오류에서 HTTP 상태 코드와 retry_after(초)를 추출합니다.
// 네트워크 수준 오류처럼 API 응답이 없는 경우 (0, 0)을 반환합니다.
func parseAPIError(err error) (code, retryAfter int) {
	var apiErr *tgbotapi.Error
	if !apperrors.As(err, &apiErr) {
		return 0, 0
	}
	if apiErr.ResponseParameters.RetryAfter > 0 {
		retryAfter = apiErr.ResponseParameters.RetryAfter
	}
	return apiErr.Code, retryAfter
}

// isFatalStatus 재시도가 무의미한 클라이언트 측 오류인지 판단합니다.
func isFatalStatus(code int) bool {
	switch code {
	case 400, 401, 403:
		return true
	}
	return false
}
