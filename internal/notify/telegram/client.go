// Package telegram 재시도 정책과 다중 수신자 fan-out을 갖춘 텔레그램 알림 채널을 제공합니다.
//
// 단순 채널들과 달리 이 채널은 요청 단위의 재시도(선형 백오프), 수신자별 순차 발송,
// 사진 첨부 전송을 지원하는 신뢰성 채널입니다.
package telegram

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// component 텔레그램 채널 로그의 component 필드 값
const component = "notify.telegram"

const (
	// channelName Dispatcher에 보고되는 채널 이름
	channelName = "Telegram"

	// parseModeHTML 메시지 서식 모드
	parseModeHTML = "HTML"

	// 재시도 횟수의 유효 범위 (과도한 재시도 방지)
	minRetries = 1
	maxRetries = 10
)

// api 발송에 사용하는 텔레그램 Bot API 표면입니다.
// 테스트에서 Mock으로 대체하기 위해 *tgbotapi.BotAPI의 원시 요청 메서드만 추상화합니다.
type api interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	UploadFiles(endpoint string, params tgbotapi.Params, files []tgbotapi.RequestFile) (*tgbotapi.APIResponse, error)
}

// 컴파일 타임에 BotAPI가 api 인터페이스를 구현하는지 검증합니다.
var _ api = (*tgbotapi.BotAPI)(nil)

// Client 텔레그램 알림 채널 클라이언트입니다.
//
// 생성 시점에는 네트워크 요청을 수행하지 않습니다. 봇 연결은 첫 발송 시점에
// 지연 초기화되며, 설정이 누락된 경우 연결 시도 자체가 일어나지 않습니다.
type Client struct {
	token   string
	chatIDs []string

	messageThreadID    int64
	silent             bool
	notifyOnSuccess    bool
	disableLinkPreview bool

	retryCount int
	retryDelay time.Duration

	// limiter 텔레그램 API의 초당 발송 횟수 제한 준수용 (토큰 버킷)
	limiter *rate.Limiter

	mu  sync.Mutex // bot 지연 초기화 보호
	bot api
}

// New 텔레그램 채널 클라이언트를 생성합니다.
// 잘못된 설정값(재시도 횟수, 대기 시간)은 안전한 범위로 자동 보정됩니다.
func New(cfg config.TelegramConfig) *Client {
	retryCount := cfg.MaxRetries
	if retryCount < minRetries {
		retryCount = config.DefaultMaxRetries
	}
	if retryCount > maxRetries {
		retryCount = maxRetries
	}

	retryDelay, err := time.ParseDuration(cfg.RetryDelay)
	if err != nil || retryDelay <= 0 {
		retryDelay, _ = time.ParseDuration(config.DefaultRetryDelay)
	}

	return &Client{
		token:              cfg.BotToken,
		chatIDs:            parseChatIDs(cfg.ChatIDs),
		messageThreadID:    cfg.MessageThreadID,
		silent:             cfg.Silent,
		notifyOnSuccess:    cfg.NotifyOnSuccess,
		disableLinkPreview: cfg.DisableLinkPreview,
		retryCount:         retryCount,
		retryDelay:         retryDelay,

		// 텔레그램 Bot API의 권장 발송 속도(초당 약 30건)보다 보수적으로 제한합니다.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// Name 채널의 표시 이름을 반환합니다.
func (c *Client) Name() string {
	return channelName
}

// checkConfig 발송에 필요한 필수 설정의 존재 여부를 검사합니다.
// 활성화 여부는 캐시되지 않으며 매 발송 시점에 이 함수로 다시 검사됩니다.
func (c *Client) checkConfig() error {
	if c.token == "" {
		return apperrors.New(apperrors.Configuration, "텔레그램 봇 토큰이 설정되지 않았습니다")
	}
	if len(c.chatIDs) == 0 {
		return apperrors.New(apperrors.Configuration, "텔레그램 수신자(chat_ids)가 설정되지 않았습니다")
	}
	return nil
}

// ensureBot 텔레그램 봇 연결을 지연 초기화합니다.
// 최초 호출 시 한 번만 getMe 검증이 수행되며, 이후 호출은 기존 인스턴스를 재사용합니다.
func (c *Client) ensureBot() (api, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}

	bot, err := tgbotapi.NewBotAPI(c.token)
	if err != nil {
		if code, _ := parseAPIError(err); isFatalStatus(code) {
			return nil, apperrors.Wrap(err, apperrors.Rejected, "텔레그램 봇 토큰이 거부되었습니다")
		}
		return nil, apperrors.Wrap(err, apperrors.Transport, "텔레그램 봇 초기화에 실패했습니다")
	}

	c.bot = bot
	return c.bot, nil
}

// parseChatIDs 쉼표로 구분된 수신자 목록 문자열을 파싱합니다.
// 공백 항목과 중복 항목은 제거되며, 입력 순서는 유지됩니다.
func parseChatIDs(raw string) []string {
	var chatIDs []string
	seen := make(map[string]struct{})

	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		chatIDs = append(chatIDs, id)
	}

	return chatIDs
}

// messageParams 수신자 한 명에 대한 공통 발송 파라미터를 구성합니다.
func (c *Client) messageParams(chatID string) tgbotapi.Params {
	params := make(tgbotapi.Params)
	params["chat_id"] = chatID
	params["parse_mode"] = parseModeHTML

	if c.silent {
		params["disable_notification"] = "true"
	}
	if c.messageThreadID != 0 {
		params["message_thread_id"] = strconv.FormatInt(c.messageThreadID, 10)
	}

	return params
}
