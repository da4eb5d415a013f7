// Package config 애플리케이션 설정의 로드와 유효성 검증을 담당합니다.
//
// 설정은 다음 우선순위로 병합됩니다 (뒤쪽이 우선):
//  1. 구조체 기본값 (structs provider)
//  2. JSON 설정 파일
//  3. NOTIFY_ 접두사의 환경 변수
//
// 로드가 완료된 AppConfig는 불변(immutable) 스냅샷으로 취급되며,
// 각 컴포넌트의 생성자에 명시적으로 전달됩니다. 숨겨진 전역 상태는 없습니다.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "notify-dispatcher"

	// DefaultFilename 실행 인자로 경로가 제공되지 않은 경우 탐색하는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// DefaultMaxRetries 신뢰성 채널(텔레그램)의 최대 전송 시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 기본 대기 시간 (선형 백오프의 기준 단위)
	DefaultRetryDelay = "2s"

	// DefaultGotifyPriority Gotify 알림의 기본 우선순위
	DefaultGotifyPriority = 9

	// DefaultListenPort API 서버의 기본 수신 포트
	DefaultListenPort = 8180
)

var validate = validator.New()

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug    bool           `json:"debug"`
	Log      LogConfig      `json:"log"`
	API      APIConfig      `json:"api"`
	Channels ChannelsConfig `json:"channels"`
}

// LogConfig 로그 파일의 저장 경로와 보관 정책을 정의하는 설정 구조체
type LogConfig struct {
	Dir        string `json:"dir"`
	MaxAgeDays int    `json:"max_age_days" validate:"min=0"`
}

// APIConfig 알림 발송 REST API 서버 설정 구조체
type APIConfig struct {
	ListenPort     int    `json:"listen_port" validate:"min=1,max=65535"`
	RequestTimeout string `json:"request_timeout"`
}

// ChannelsConfig 알림 채널별 자격증명과 엔드포인트를 담는 설정 구조체입니다.
//
// 각 채널은 필수 필드가 모두 비어있지 않은 경우에만 활성화된 것으로 간주되며,
// 활성화 여부는 캐시되지 않고 매 발송 시점에 다시 검사됩니다.
type ChannelsConfig struct {
	Email      EmailConfig    `json:"email"`
	PushPlus   PushPlusConfig `json:"pushplus"`
	ServerChan ServerChanConfig `json:"serverchan"`
	DingTalk   WebhookConfig  `json:"dingtalk"`
	Feishu     WebhookConfig  `json:"feishu"`
	WeCom      WebhookConfig  `json:"wecom"`
	Gotify     GotifyConfig   `json:"gotify"`
	Telegram   TelegramConfig `json:"telegram"`
}

// EmailConfig SMTP 발송에 필요한 계정 및 서버 정보를 담는 설정 구조체
type EmailConfig struct {
	User       string `json:"user" validate:"omitempty,email"`
	Pass       string `json:"pass"`
	To         string `json:"to" validate:"omitempty,email"`
	Sender     string `json:"sender"`
	SMTPServer string `json:"smtp_server"`
	HTML       bool   `json:"html"`
}

// PushPlusConfig PushPlus 푸시 서비스의 토큰 설정 구조체
type PushPlusConfig struct {
	Token string `json:"token"`
}

// ServerChanConfig ServerChan(Server酱) 푸시 서비스의 SendKey 설정 구조체
type ServerChanConfig struct {
	SendKey string `json:"send_key"`
}

// WebhookConfig 단일 웹훅 URL로 발송하는 채널(딩톡, 페이슈, 위컴)의 설정 구조체
type WebhookConfig struct {
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
}

// GotifyConfig Gotify 푸시 게이트웨이의 엔드포인트와 우선순위 설정 구조체
type GotifyConfig struct {
	URL      string `json:"url" validate:"omitempty,url"`
	Token    string `json:"token"`
	Priority int    `json:"priority"`
}

// TelegramConfig 텔레그램 봇 채널의 자격증명과 발송 정책을 담는 설정 구조체
type TelegramConfig struct {
	BotToken string `json:"bot_token"`

	// ChatIDs 쉼표로 구분된 수신자 식별자 목록 (예: "123456,-1009876")
	// 공백 및 중복 항목은 파싱 시점에 제거됩니다.
	ChatIDs string `json:"chat_ids"`

	// MessageThreadID 포럼형 그룹의 토픽(스레드) ID (0이면 미사용)
	MessageThreadID int64 `json:"message_thread_id"`

	// Silent 수신 측 알림음을 울리지 않고 조용히 전송할지 여부
	Silent bool `json:"silent"`

	// NotifyOnSuccess 전체 성공 시에도 알림을 발송할지 여부
	NotifyOnSuccess bool `json:"notify_on_success"`

	// DisableLinkPreview 메시지 내 링크의 미리보기를 비활성화할지 여부
	DisableLinkPreview bool `json:"disable_link_preview"`

	MaxRetries int    `json:"max_retries"`
	RetryDelay string `json:"retry_delay"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "API 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "MaxAgeDays":
					return apperrors.New(apperrors.InvalidInput, "로그 보관 일수(max_age_days)는 0 이상이어야 합니다")
				case "User", "To":
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("이메일 주소 형식이 올바르지 않습니다: '%v'", fieldErr.Value()))
				case "WebhookURL", "URL":
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("웹훅 URL 형식이 올바르지 않습니다: '%v'", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	if c.API.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.API.RequestTimeout); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("API 요청 제한 시간(request_timeout) 설정이 올바르지 않습니다: '%s' (예: 30s, 1m)", c.API.RequestTimeout))
		}
	}

	if _, err := time.ParseDuration(c.Channels.Telegram.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("텔레그램 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.Channels.Telegram.RetryDelay))
	}

	return nil
}

// defaults 설정 병합의 최하위 우선순위로 사용되는 기본값입니다.
func defaults() AppConfig {
	return AppConfig{
		Log: LogConfig{
			MaxAgeDays: 15,
		},
		API: APIConfig{
			ListenPort: DefaultListenPort,
		},
		Channels: ChannelsConfig{
			Gotify: GotifyConfig{
				Priority: DefaultGotifyPriority,
			},
			Telegram: TelegramConfig{
				DisableLinkPreview: true,
				MaxRetries:         DefaultMaxRetries,
				RetryDelay:         DefaultRetryDelay,
			},
		},
	}
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
//
// 설정 파일이 존재하지 않는 경우에도 에러로 처리하지 않습니다.
// 모든 설정을 환경 변수만으로 구성하는 운영 방식(CI 등)을 지원하기 위함입니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(defaults(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
		}
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: NOTIFY_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: NOTIFY_CHANNELS__TELEGRAM__BOT_TOKEN -> channels.telegram.bot_token
	if err := k.Load(env.Provider("NOTIFY_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "NOTIFY_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
