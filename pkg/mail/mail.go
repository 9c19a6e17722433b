// Package mail abstracts outbound email. Delivery itself is an external
// concern; the default implementation just logs, which is also what keeps
// password-reset requests from leaking account existence in dev setups.
package mail

import (
	"parley/pkg/logger"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendResetCode(to, code string) error
}

// LogMailer writes outbound mail to the log instead of sending it.
type LogMailer struct {
	From string
}

func (m LogMailer) SendResetCode(to, code string) error {
	logger.Info("mail_reset_code", "from", m.From, "to", to, "code", code)
	return nil
}
