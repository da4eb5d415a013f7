package errors

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// Configuration 필수 설정값 누락 또는 잘못된 설정
	// 이 타입의 에러가 반환된 경우 네트워크 요청은 시도되지 않았음이 보장됩니다.
	Configuration

	// InvalidInput 잘못된 입력값 (유효성 검사 실패)
	InvalidInput

	// Transport 네트워크 수준의 오류 (타임아웃, 연결 실패 등)
	// 신뢰성 채널에서는 재시도 대상으로 분류됩니다.
	Transport

	// Rejected 원격 서비스가 요청을 명시적으로 거부함 (400/401/403 등)
	// 재시도해도 결과가 달라지지 않으므로 즉시 실패 처리됩니다.
	Rejected

	// Service 원격 서비스의 일반적인 실패 응답 (5xx, 429 등)
	// 일시적인 장애일 가능성이 높아 신뢰성 채널에서는 재시도 대상입니다.
	Service

	// Timeout 작업 시간 초과
	Timeout
)

// typeNames ErrorType의 로깅 및 에러 메시지용 문자열 표현입니다.
var typeNames = map[ErrorType]string{
	Unknown:       "Unknown",
	Internal:      "Internal",
	Configuration: "Configuration",
	InvalidInput:  "InvalidInput",
	Transport:     "Transport",
	Rejected:      "Rejected",
	Service:       "Service",
	Timeout:       "Timeout",
}

// String ErrorType을 사람이 읽을 수 있는 문자열로 변환합니다.
func (t ErrorType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Retryable 해당 에러 타입이 재시도 가능한지 여부를 반환합니다.
// 신뢰성 채널의 재시도 엔진이 각 시도의 결과를 분류할 때 사용합니다.
func (t ErrorType) Retryable() bool {
	switch t {
	case Transport, Service, Timeout:
		return true
	default:
		return false
	}
}
