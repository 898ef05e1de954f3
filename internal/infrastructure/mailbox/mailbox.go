package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/cfg"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// confirmationSubject — тема писем-подтверждений, которые отправляет оператору Mailer.
const confirmationSubject = "Order Confirmation Received"

// Mailbox читает непрочитанные письма-подтверждения из IMAP-ящика.
// Каждый вызов открывает отдельное соединение: интервалы опроса длинные,
// и держать сессию между запусками нет смысла.
type Mailbox struct {
	cfg    *cfg.ImapCfg
	from   string // Адрес, от которого приходят подтверждения (системный SMTP-аккаунт)
	logger logger.Logger
}

func NewMailbox(cfg *cfg.ImapCfg, from string, logger logger.Logger) *Mailbox {
	return &Mailbox{
		cfg:    cfg,
		from:   from,
		logger: logger,
	}
}

// FetchUnseenConfirmations возвращает непрочитанные письма-подтверждения.
// Выборка без PEEK: сервер помечает письма прочитанными,
// поэтому повторный запуск их уже не увидит.
func (m *Mailbox) FetchUnseenConfirmations(ctx context.Context) ([]domain.InboundEmail, error) {
	const op = "Mailbox.FetchUnseenConfirmations"

	c, err := client.DialTLS(fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port), nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err := c.Logout(); err != nil {
			m.logger.Warnf("mailbox: logout: %v", err)
		}
	}()

	if err := c.Login(m.cfg.User, m.cfg.Password); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		return nil, e.Wrap(op, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Header.Add("From", m.from)
	criteria.Header.Add("Subject", confirmationSubject)

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var emails []domain.InboundEmail
	for msg := range messages {
		inbound, err := m.parseMessage(msg, section)
		if err != nil {
			m.logger.Warnf("mailbox: parse message %d: %v", msg.SeqNum, err)
			continue
		}
		emails = append(emails, *inbound)
	}

	if err := <-done; err != nil {
		return nil, e.Wrap(op, err)
	}

	return emails, nil
}

func (m *Mailbox) parseMessage(msg *imap.Message, section *imap.BodySectionName) (*domain.InboundEmail, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message %d has no body section", msg.SeqNum)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return parseRawMessage(raw)
}

// parseRawMessage извлекает тему, отправителя и тело письма.
// Телом считается первая text/plain часть; если её нет — первая inline часть.
func parseRawMessage(raw []byte) (*domain.InboundEmail, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	subject, err := mr.Header.Subject()
	if err != nil {
		subject = ""
	}

	var from string
	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		from = addrs[0].Address
	}

	var textBody, fallback string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		b, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, err
		}

		contentType, _, err := header.ContentType()
		if err == nil && contentType == "text/plain" {
			textBody = string(b)
			break
		}
		if fallback == "" {
			fallback = string(b)
		}
	}
	if textBody == "" {
		textBody = fallback
	}

	return domain.NewInboundEmail(subject, from, textBody, raw), nil
}
