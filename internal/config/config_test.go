package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile 테스트용 설정 파일을 임시 디렉토리에 생성합니다.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notify-dispatcher.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	// 설정 파일이 없어도 기본값만으로 로드가 성공해야 한다.
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultListenPort, cfg.API.ListenPort)
	assert.Equal(t, DefaultGotifyPriority, cfg.Channels.Gotify.Priority)
	assert.Equal(t, DefaultMaxRetries, cfg.Channels.Telegram.MaxRetries)
	assert.Equal(t, DefaultRetryDelay, cfg.Channels.Telegram.RetryDelay)
	assert.True(t, cfg.Channels.Telegram.DisableLinkPreview)
	assert.False(t, cfg.Channels.Telegram.NotifyOnSuccess)
}

func TestLoadWithFile_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"debug": true,
		"api": {"listen_port": 9000},
		"channels": {
			"telegram": {
				"bot_token": "123456:ABC-DEF",
				"chat_ids": "100,200",
				"max_retries": 5,
				"retry_delay": "1s"
			},
			"gotify": {"url": "https://gotify.example.com/message", "token": "t0ken", "priority": 5}
		}
	}`)

	cfg, err := LoadWithFile(path)

	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 9000, cfg.API.ListenPort)
	assert.Equal(t, "123456:ABC-DEF", cfg.Channels.Telegram.BotToken)
	assert.Equal(t, "100,200", cfg.Channels.Telegram.ChatIDs)
	assert.Equal(t, 5, cfg.Channels.Telegram.MaxRetries)
	assert.Equal(t, 5, cfg.Channels.Gotify.Priority)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"channels": {"pushplus": {"token": "from-file"}}
	}`)

	t.Setenv("NOTIFY_CHANNELS__PUSHPLUS__TOKEN", "from-env")
	t.Setenv("NOTIFY_CHANNELS__TELEGRAM__CHAT_IDS", "42")

	cfg, err := LoadWithFile(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Channels.PushPlus.Token)
	assert.Equal(t, "42", cfg.Channels.Telegram.ChatIDs)
}

func TestLoadWithFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "허용 범위를 벗어난 포트",
			content: `{"api": {"listen_port": 70000}}`,
		},
		{
			name:    "잘못된 이메일 주소",
			content: `{"channels": {"email": {"user": "not-an-email"}}}`,
		},
		{
			name:    "잘못된 웹훅 URL",
			content: `{"channels": {"dingtalk": {"webhook_url": "not a url"}}}`,
		},
		{
			name:    "잘못된 재시도 대기 시간",
			content: `{"channels": {"telegram": {"retry_delay": "abc"}}}`,
		},
		{
			name:    "구조체에 존재하지 않는 필드",
			content: `{"channels": {"telegram": {"no_such_field": true}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)

			_, err := LoadWithFile(path)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput), "InvalidInput 타입이어야 합니다: %v", err)
		})
	}
}

func TestLoadWithFile_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{invalid json`)

	_, err := LoadWithFile(path)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}
