package services

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/filehost/filehost/internal/mail"
	"github.com/filehost/filehost/pkg/logger"
)

// Notifier hands a reset token to whoever delivers it. Implementations must not
// block the caller or report delivery failures back to it.
type Notifier interface {
	Notify(recipient, token string)
}

const resetMailSubject = "Password Reset Request"

type resetMail struct {
	recipient string
	token     string
}

// MailNotifier queues reset mails and sends them from a single goroutine.
type MailNotifier struct {
	Mailer    mail.Mailer
	PublicURL string

	mu     sync.RWMutex
	closed bool
	queue  chan resetMail
	done   chan struct{}
}

func NewMailNotifier(mailer mail.Mailer, publicURL string, queueSize int) *MailNotifier {
	if queueSize < 1 {
		queueSize = 1
	}
	n := &MailNotifier{
		Mailer:    mailer,
		PublicURL: publicURL,
		queue:     make(chan resetMail, queueSize),
		done:      make(chan struct{}),
	}
	go n.processQueue()
	return n
}

func (n *MailNotifier) Notify(recipient, token string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		logger.Warn("reset_mail_after_close", map[string]interface{}{"recipient": recipient})
		return
	}

	select {
	case n.queue <- resetMail{recipient: recipient, token: token}:
	default:
		logger.Warn("reset_mail_queue_full", map[string]interface{}{
			"recipient": recipient,
			"dropped":   true,
		})
	}
}

// Close stops accepting mail and waits for queued messages to be sent.
func (n *MailNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	<-n.done
}

func (n *MailNotifier) processQueue() {
	defer close(n.done)

	for m := range n.queue {
		body := ResetMailBody(n.PublicURL, m.token)
		if err := n.Mailer.SendTo(resetMailSubject, body, []string{m.recipient}); err != nil {
			logger.Error("reset_mail_failed", err, map[string]interface{}{
				"recipient": m.recipient,
			})
			continue
		}
		logger.Info("reset_mail_sent", map[string]interface{}{
			"recipient": m.recipient,
		})
	}
}

// ResetLink is the page a user opens to choose a new password.
func ResetLink(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/change-password?token=" + url.QueryEscape(token)
}

func ResetMailBody(publicURL, token string) string {
	return fmt.Sprintf("You requested a password reset. Click the link to reset your password: %s", ResetLink(publicURL, token))
}
