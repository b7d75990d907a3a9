package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/models"
	"github.com/tacology/feedback/internal/services"
)

// Dispatcher runs notification sends off the request path. Failures are
// logged and never reach the caller: a survey submission is committed before
// any send starts and must not be affected by their outcome.
type Dispatcher struct {
	email  *EmailClient
	sms    *SMSClient
	ctaURL string
	log    *logrus.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(email *EmailClient, sms *SMSClient, ctaURL string, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{email: email, sms: sms, ctaURL: ctaURL, log: log}
}

var _ services.NotificationDispatcher = (*Dispatcher)(nil)

// DispatchCoupon sends the thank-you coupon email.
func (d *Dispatcher) DispatchCoupon(email, name string, location models.Location) {
	if !d.email.Configured() {
		d.log.Warn("coupon email skipped: email sender not configured")
		return
	}
	subject, htmlBody, textBody := RenderCouponEmail(name, string(location), d.ctaURL)
	d.submit("coupon_email", func(ctx context.Context) error {
		return d.email.Send(ctx, email, subject, htmlBody, textBody)
	})
}

// DispatchAlert sends the low-score alert over email and SMS.
func (d *Dispatcher) DispatchAlert(in services.AlertInput) {
	msg := BuildAlertMessage(in)
	if d.email.Configured() {
		d.submit("alert_email", func(ctx context.Context) error {
			return d.email.Send(ctx, d.email.cfg.From, "Tacology survey alert", "", msg)
		})
	} else {
		d.log.Warn("alert email skipped: email sender not configured")
	}
	if d.sms.Configured() {
		d.submit("alert_sms", func(ctx context.Context) error {
			return d.sms.Send(ctx, msg)
		})
	} else {
		d.log.Warn("alert sms skipped: sms sender not configured")
	}
}

func (d *Dispatcher) submit(kind string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			d.log.WithField("notification", kind).WithError(err).Error("notification send failed")
		}
	}()
}

// Flush waits for in-flight sends. Used at shutdown and in tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}
