package notify

import (
	"context"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	"github.com/darkkaiser/notify-dispatcher/internal/metrics"
	"github.com/darkkaiser/notify-dispatcher/internal/notify/format"
	"github.com/darkkaiser/notify-dispatcher/internal/notify/telegram"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
	applog "github.com/darkkaiser/notify-dispatcher/pkg/log"
	log "github.com/sirupsen/logrus"
)

// component Dispatcher 로그의 component 필드 값
const component = "notify.dispatcher"

// Dispatcher 설정된 모든 채널로의 발송 라운드를 조율합니다.
//
// 채널은 선언된 고정 순서(이메일 → 웹훅 서비스들 → 텔레그램)로 순차 호출되며,
// 각 채널의 실패(설정 누락, 발송 에러, 패닉)는 해당 채널의 Outcome으로 기록될 뿐
// 라운드 전체를 중단시키지 않습니다.
type Dispatcher struct {
	senders []Sender

	// telegram 신뢰성 채널. 리포트 발송 시 발송 생략 판단과 스크린샷 첨부를 위해
	// senders 목록과 별도로 직접 참조를 유지합니다.
	telegram *telegram.Client
}

// Report 체크인 리포트 발송 요청입니다.
type Report struct {
	Results        []format.Result `json:"results"`
	SuccessCount   int             `json:"success_count"`
	TotalCount     int             `json:"total_count"`
	ExecutionTime  string          `json:"execution_time,omitempty"`
	BalanceChanged bool            `json:"balance_changed,omitempty"`

	// ScreenshotPath 텔레그램 채널로만 추가 발송되는 스크린샷 파일 경로 (선택)
	ScreenshotPath string `json:"screenshot_path,omitempty"`
}

// NewDispatcher 채널 설정으로부터 Dispatcher를 생성합니다.
//
// 설정이 비어있는 채널도 목록에서 제외되지 않습니다. 발송 시점에
// Configuration 에러로 보고되어 Outcome 목록에 항상 나타납니다.
func NewDispatcher(cfg config.ChannelsConfig, fetcher Fetcher) *Dispatcher {
	tg := telegram.New(cfg.Telegram)

	return &Dispatcher{
		senders: []Sender{
			newEmailSender(cfg.Email),
			newPushPlusSender(cfg.PushPlus, fetcher),
			newServerChanSender(cfg.ServerChan, fetcher),
			newDingTalkSender(cfg.DingTalk, fetcher),
			newFeishuSender(cfg.Feishu, fetcher),
			newWeComSender(cfg.WeCom, fetcher),
			newGotifySender(cfg.Gotify, fetcher),
			tg,
		},
		telegram: tg,
	}
}

// PushAll 제목/본문 한 쌍을 모든 채널로 발송하고 채널별 Outcome 목록을 반환합니다.
//
// 반환되는 목록은 항상 설정된 채널 수와 같은 길이를 가지며,
// 순서는 선언된 채널 순서와 동일합니다 (결정적).
func (d *Dispatcher) PushAll(ctx context.Context, title, content string) []Outcome {
	return d.pushRound(ctx, func(sender Sender) func(context.Context) error {
		return func(ctx context.Context) error {
			return sender.Send(ctx, title, content)
		}
	})
}

// PushReport 체크인 리포트를 모든 채널로 발송하고 채널별 Outcome 목록을 반환합니다.
//
// 단순 채널들은 포맷된 리포트 본문을 일반 메시지로 수신합니다. 텔레그램 채널은
// 전용 리포트 발송 경로를 사용하며, 전체 성공 시의 발송 생략과 스크린샷 첨부는
// 텔레그램 채널에서만 적용됩니다.
func (d *Dispatcher) PushReport(ctx context.Context, report Report) []Outcome {
	body := format.Format(report.Results, report.SuccessCount, report.TotalCount, report.ExecutionTime, report.BalanceChanged)

	return d.pushRound(ctx, func(sender Sender) func(context.Context) error {
		if sender == Sender(d.telegram) {
			return func(ctx context.Context) error {
				return d.telegram.SendEnhanced(ctx, report.Results, report.SuccessCount, report.TotalCount, report.ExecutionTime, report.BalanceChanged, report.ScreenshotPath)
			}
		}
		return func(ctx context.Context) error {
			return sender.Send(ctx, format.ReportTitle, body)
		}
	})
}

// pushRound 한 번의 발송 라운드를 수행합니다. 채널별 발송 함수는 bind가 결정합니다.
func (d *Dispatcher) pushRound(ctx context.Context, bind func(Sender) func(context.Context) error) []Outcome {
	started := time.Now()

	outcomes := make([]Outcome, 0, len(d.senders))
	for _, sender := range d.senders {
		outcome := d.push(ctx, sender.Name(), bind(sender))

		if outcome.OK {
			applog.WithComponentAndFields(component, log.Fields{
				"channel": outcome.Channel,
			}).Info("알림메시지 발송 성공")
		} else {
			applog.WithComponentAndFields(component, log.Fields{
				"channel": outcome.Channel,
				"error":   outcome.Err,
			}).Warn("알림메시지 발송 실패")
		}

		metrics.ObserveDelivery(outcome.Channel, outcome.OK)
		outcomes = append(outcomes, outcome)
	}

	metrics.ObserveDispatch(time.Since(started))

	return outcomes
}

// push 단일 채널로의 발송을 시도하고 결과를 Outcome으로 변환합니다.
// 채널 구현체에서 패닉이 발생해도 recover하여 라운드의 안정성을 유지합니다.
func (d *Dispatcher) push(ctx context.Context, channel string, send func(context.Context) error) (outcome Outcome) {
	outcome = Outcome{Channel: channel}

	defer func() {
		if r := recover(); r != nil {
			outcome.OK = false
			outcome.Err = apperrors.Newf(apperrors.Internal, "채널 발송중에 panic 발생: %v", r).Error()

			applog.WithComponentAndFields(component, log.Fields{
				"channel": channel,
				"panic":   r,
			}).Error("알림메시지 발송중에 panic 발생")
		}
	}()

	if err := send(ctx); err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	outcome.OK = true
	return outcome
}
