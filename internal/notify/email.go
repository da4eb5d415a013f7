package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/darkkaiser/notify-dispatcher/internal/config"
	apperrors "github.com/darkkaiser/notify-dispatcher/internal/pkg/errors"
)

// smtpPort 이메일 발송에 사용하는 SMTP over TLS(implicit) 포트
const smtpPort = "465"

// emailSender SMTP를 통한 이메일 알림 채널입니다.
//
// 발송마다 하나의 SMTP 세션(연결 → 인증 → 발송 → 종료)을 사용하며,
// 중간에 실패하더라도 세션은 항상 정리됩니다.
type emailSender struct {
	cfg config.EmailConfig

	// dialTimeout TLS 연결 수립 제한 시간
	dialTimeout time.Duration
}

func newEmailSender(cfg config.EmailConfig) *emailSender {
	return &emailSender{
		cfg:         cfg,
		dialTimeout: 30 * time.Second,
	}
}

func (s *emailSender) Name() string {
	return ChannelEmail
}

func (s *emailSender) Send(ctx context.Context, title, content string) error {
	if s.cfg.User == "" || s.cfg.Pass == "" || s.cfg.To == "" {
		return apperrors.New(apperrors.Configuration, "이메일 설정(user/pass/to)이 누락되었습니다")
	}

	// 발신자가 지정되지 않은 경우 계정 주소를 사용합니다.
	sender := s.cfg.Sender
	if sender == "" {
		sender = s.cfg.User
	}

	host, err := s.smtpHost()
	if err != nil {
		return err
	}

	// Implicit TLS(465) 연결 수립
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.dialTimeout},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, smtpPort))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.Transport, "SMTP 서버(%s) 연결에 실패했습니다", host)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return apperrors.Wrap(err, apperrors.Transport, "SMTP 세션 생성에 실패했습니다")
	}
	// 발송 도중 실패하더라도 세션이 항상 정리되도록 보장합니다.
	// 정상 종료(Quit) 이후의 Close는 무해한 no-op입니다.
	defer client.Close()

	if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)); err != nil {
		return apperrors.Wrap(err, apperrors.Rejected, "SMTP 인증에 실패했습니다")
	}

	if err := client.Mail(sender); err != nil {
		return apperrors.Wrap(err, apperrors.Service, "발신자 주소가 거부되었습니다")
	}
	if err := client.Rcpt(s.cfg.To); err != nil {
		return apperrors.Wrap(err, apperrors.Service, "수신자 주소가 거부되었습니다")
	}

	w, err := client.Data()
	if err != nil {
		return apperrors.Wrap(err, apperrors.Service, "메시지 본문 전송을 시작하지 못했습니다")
	}
	if _, err := w.Write(s.buildMessage(sender, title, content)); err != nil {
		return apperrors.Wrap(err, apperrors.Transport, "메시지 본문 전송에 실패했습니다")
	}
	if err := w.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.Service, "메시지 본문 전송을 완료하지 못했습니다")
	}

	if err := client.Quit(); err != nil {
		return apperrors.Wrap(err, apperrors.Service, "SMTP 세션을 정상 종료하지 못했습니다")
	}

	return nil
}

// smtpHost 사용할 SMTP 서버 주소를 결정합니다.
// 명시적으로 설정되지 않은 경우 계정 도메인 기반의 관례적 주소(smtp.<domain>)를 사용합니다.
func (s *emailSender) smtpHost() (string, error) {
	if s.cfg.SMTPServer != "" {
		return s.cfg.SMTPServer, nil
	}

	parts := strings.SplitN(s.cfg.User, "@", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", apperrors.Newf(apperrors.Configuration, "이메일 계정(%s)에서 SMTP 서버 주소를 유추할 수 없습니다", s.cfg.User)
	}
	return "smtp." + parts[1], nil
}

// buildMessage RFC 5322 형식의 메일 메시지를 생성합니다.
func (s *emailSender) buildMessage(sender, title, content string) []byte {
	contentType := "text/plain"
	if s.cfg.HTML {
		contentType = "text/html"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: Notify Assistant <%s>\r\n", sender))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", s.cfg.To))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", title)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: %s; charset=utf-8\r\n", contentType))
	sb.WriteString("\r\n")
	sb.WriteString(content)
	sb.WriteString("\r\n")

	return []byte(sb.String())
}
