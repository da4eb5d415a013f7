package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(Configuration, "이메일 설정이 누락되었습니다")

	require.Error(t, err)

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, Configuration, appErr.Type())
	assert.Equal(t, "이메일 설정이 누락되었습니다", appErr.Message())
	assert.Contains(t, err.Error(), "[Configuration]")
}

func TestWrap(t *testing.T) {
	t.Run("nil 에러를 래핑하면 nil을 반환한다", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, Transport, "should be nil"))
	})

	t.Run("원인 에러가 체인에 보존된다", func(t *testing.T) {
		cause := io.ErrUnexpectedEOF
		err := Wrap(cause, Transport, "웹훅 요청 실패")

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, cause, RootCause(err))
		assert.Contains(t, err.Error(), "웹훅 요청 실패")
		assert.Contains(t, err.Error(), cause.Error())
	})
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{
			name:     "동일한 타입이면 true",
			err:      New(Rejected, "unauthorized"),
			errType:  Rejected,
			expected: true,
		},
		{
			name:     "다른 타입이면 false",
			err:      New(Transport, "connection refused"),
			errType:  Rejected,
			expected: false,
		},
		{
			name:     "체인 내부의 타입도 탐색한다",
			err:      Wrap(New(Configuration, "missing token"), Internal, "send failed"),
			errType:  Configuration,
			expected: true,
		},
		{
			name:     "nil 에러는 false",
			err:      nil,
			errType:  Transport,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Is(tt.err, tt.errType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	t.Run("가장 바깥쪽 AppError의 타입을 반환한다", func(t *testing.T) {
		err := Wrap(New(Transport, "timeout"), Service, "send failed")
		assert.Equal(t, Service, TypeOf(err))
	})

	t.Run("일반 에러는 Unknown", func(t *testing.T) {
		assert.Equal(t, Unknown, TypeOf(fmt.Errorf("plain error")))
	})

	t.Run("표준 래핑을 통과하여 탐색한다", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(Rejected, "forbidden"))
		assert.Equal(t, Rejected, TypeOf(err))
	})
}

func TestErrorType_Retryable(t *testing.T) {
	assert.True(t, Transport.Retryable())
	assert.True(t, Service.Retryable())
	assert.True(t, Timeout.Retryable())
	assert.False(t, Rejected.Retryable())
	assert.False(t, Configuration.Retryable())
	assert.False(t, Internal.Retryable())
}

func TestAppError_Format(t *testing.T) {
	err := Wrap(io.ErrClosedPipe, Transport, "연결이 종료되었습니다")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "Stack trace:")
	assert.Contains(t, detailed, "Caused by:")

	quoted := fmt.Sprintf("%q", err)
	assert.Contains(t, quoted, "Transport")
}
