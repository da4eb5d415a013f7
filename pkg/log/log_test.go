package log

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWithComponent(t *testing.T) {
	entry := WithComponent("notify.dispatcher")
	assert.Equal(t, "notify.dispatcher", entry.Data["component"])
}

func TestWithComponentAndFields(t *testing.T) {
	entry := WithComponentAndFields("notify.telegram", log.Fields{
		"chat_id": "12345",
		"attempt": 2,
	})

	assert.Equal(t, "notify.telegram", entry.Data["component"])
	assert.Equal(t, "12345", entry.Data["chat_id"])
	assert.Equal(t, 2, entry.Data["attempt"])
}

func TestWithComponentAndFields_DoesNotMutateInput(t *testing.T) {
	fields := log.Fields{"key": "value"}
	WithComponentAndFields("notify", fields)

	_, exists := fields["component"]
	assert.False(t, exists, "입력 맵이 변경되어서는 안 됩니다")
}

func TestMaskSensitiveData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "빈 문자열", input: "", expected: ""},
		{name: "3자 이하는 전체 마스킹", input: "abc", expected: "***"},
		{name: "짧은 값은 앞 4자만 노출", input: "abcdefgh", expected: "abcd***"},
		{name: "긴 토큰은 앞뒤 4자만 노출", input: "1234567890:ABCDEFGHIJK", expected: "1234***HIJK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskSensitiveData(tt.input))
		})
	}
}
