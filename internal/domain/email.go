package domain

// InboundEmail — входящее письмо, полученное watcher'ом из почтового ящика.
type InboundEmail struct {
	Subject string
	From    string
	Body    string // Первая text/plain часть, либо всё тело письма
	Raw     []byte // Исходное сообщение целиком (RFC 822), для архива
}

func NewInboundEmail(subject string, from string, body string, raw []byte) *InboundEmail {
	return &InboundEmail{
		Subject: subject,
		From:    from,
		Body:    body,
		Raw:     raw,
	}
}
