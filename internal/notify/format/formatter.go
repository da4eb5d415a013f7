// Package format 체크인 결과 데이터를 채널에 맞는 알림 메시지 문자열로 변환합니다.
//
// 이 패키지의 모든 함수는 순수 함수입니다. I/O와 내부 상태가 없으며,
// 잘 구성된 입력(빈 결과 목록 포함)에 대해 항상 비어있지 않은 문자열을 반환합니다.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ReportTitle 체크인 결과 알림의 헤더 제목입니다. 채널 fan-out 시 제목으로도 사용됩니다.
	ReportTitle = "Check-in Report"

	// errorTitle 단독 에러 알림의 헤더 제목입니다.
	errorTitle = "Notification Error"

	// separator 헤더/본문/요약 블록을 구분하는 수평선입니다.
	separator = "━━━━━━━━━━━━━━━━━━━━"
)

// Result 모니터링 대상 계정(작업 단위) 하나의 체크인 결과 레코드입니다.
// 호출자가 생성한 이후에는 변경되지 않는 불변 데이터로 취급합니다.
type Result struct {
	// Name 계정 식별자 (필수)
	Name string `json:"name"`

	// Success 체크인 성공 여부
	Success bool `json:"success"`

	// Balance 잔여 쿼터. 숫자 또는 사전 포맷된 문자열 모두 허용되며 그대로 렌더링됩니다.
	Balance any `json:"balance,omitempty"`

	// Used 사용량. Balance와 동일하게 타입을 가정하지 않습니다.
	Used any `json:"used,omitempty"`

	// Error 실패 시에만 존재하는 에러 메시지
	Error string `json:"error,omitempty"`
}

// Format 체크인 결과 목록과 요약 카운터를 HTML 마크업이 적용된 알림 메시지로 변환합니다.
//
// 구조는 헤더 블록 → 결과별 블록(상태 마커 + 이름, 선택적 잔액/사용량, 선택적 에러) →
// 요약 블록(성공/전체 카운트, 실패 수는 0이 아닐 때만, 잔액 변동 알림은 플래그가 설정된 경우만)
// 순서입니다. 빈 결과 목록이 입력되어도 0/0 요약을 포함한 정상 메시지를 반환합니다.
func Format(results []Result, successCount, totalCount int, executionTime string, balanceChanged bool) string {
	var sb strings.Builder

	// 헤더 블록
	sb.WriteString(fmt.Sprintf("<b>📋 %s</b>\n\n", ReportTitle))
	if executionTime != "" {
		sb.WriteString(fmt.Sprintf("🕐 <code>%s</code>\n\n", executionTime))
	}
	sb.WriteString(separator + "\n\n")

	// 결과별 블록
	for _, r := range results {
		icon := "✅"
		if !r.Success {
			icon = "❌"
		}

		name := r.Name
		if name == "" {
			name = "Unknown"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b>\n", icon, name))

		if balance := renderValue(r.Balance); balance != "" {
			sb.WriteString(fmt.Sprintf("   💰 Balance: <code>%s</code>\n", balance))
		}
		if used := renderValue(r.Used); used != "" {
			sb.WriteString(fmt.Sprintf("   📉 Used: <code>%s</code>\n", used))
		}
		if r.Error != "" {
			sb.WriteString(fmt.Sprintf("   ⚠️ <code>%s</code>\n", r.Error))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(separator + "\n\n")

	// 요약 블록
	failureCount := totalCount - successCount
	switch {
	case totalCount == 0:
		sb.WriteString("📊 <b>Result: 0/0</b>")
	case successCount == totalCount:
		sb.WriteString(fmt.Sprintf("🎉 <b>All %d accounts successful!</b>", totalCount))
	case successCount > 0:
		sb.WriteString(fmt.Sprintf("⚠️ <b>Result: %d/%d Success</b>\n", successCount, totalCount))
		sb.WriteString(fmt.Sprintf("❌ <b>Failed: %d</b>", failureCount))
	default:
		sb.WriteString(fmt.Sprintf("❌ <b>All %d accounts failed!</b>", totalCount))
	}

	if balanceChanged {
		sb.WriteString("\n💰 <b>Balance has changed since the last check</b>")
	}

	return sb.String()
}

// FormatError 단독 에러 알림 메시지를 생성합니다.
// Format과 동일한 헤더/구분선 규칙을 사용합니다.
func FormatError(errMsg string, context string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>⚠️ %s</b>\n\n", errorTitle))
	sb.WriteString(separator + "\n\n")

	if context != "" {
		sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", context))
	}
	sb.WriteString(fmt.Sprintf("<code>%s</code>", errMsg))

	return sb.String()
}

// renderValue 숫자 또는 문자열 값을 표시용 문자열로 변환합니다.
// nil과 빈 문자열은 "해당 항목 없음"을 의미하며 빈 문자열을 반환합니다.
func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// JSON 디코딩 결과는 float64로 들어오므로 지수 표기 없이 렌더링합니다.
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	default:
		return fmt.Sprint(value)
	}
}
