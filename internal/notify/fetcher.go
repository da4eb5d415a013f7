package notify

import (
	"net/http"
	"time"
)

// Fetcher HTTP 요청을 수행하는 인터페이스
//
// 테스트에서 이 인터페이스를 Mock으로 대체하여, 설정이 누락된 채널이
// 네트워크 요청을 전혀 시도하지 않는다는 것을 검증할 수 있습니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher 기본 타임아웃(30초)이 내장된 HTTP 클라이언트 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 기본 타임아웃(30초) 설정이 포함된 새로운 HTTPFetcher 인스턴스를 생성합니다.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Do HTTP 요청을 실행합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}
