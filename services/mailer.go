package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// Mailer sends one HTML email.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

var ErrMailerNotConfigured = errors.New("email provider API key is not configured")

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Html:    htmlBody,
	})
	return errors.Wrap(err, "resend send")
}

// LogMailer is used when no API key is configured. It logs the message and
// reports failure so callers do not believe the email went out.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to []string, subject, _ string) error {
	utils.InfoLogger.WithField("to", to).WithField("subject", subject).Warn("email not sent, no API key")
	return ErrMailerNotConfigured
}

// NewMailer picks the Resend mailer when a key is set.
func NewMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		return LogMailer{}
	}
	return NewResendMailer(apiKey, from)
}

// ReportEmail renders the summary email with the top five products.
func ReportEmail(r ReportData, generatedAt time.Time) (subject, body string) {
	subject = "Sales report - " + generatedAt.Format("02/01/2006")

	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1 style="color: #333;">Performance report</h1>`)
	fmt.Fprintf(&b, `<p style="color: #666;">Generated on %s at %s</p>`,
		generatedAt.Format("02/01/2006"), generatedAt.Format("15:04:05"))
	b.WriteString(`<div style="background: #f4f4f5; padding: 20px; border-radius: 12px; margin: 20px 0;">`)
	fmt.Fprintf(&b, `<div><strong>Total revenue:</strong> <span style="color: #16a34a;">%s</span></div>`, utils.FormatMoney(r.TotalRevenue))
	fmt.Fprintf(&b, `<div><strong>Total orders:</strong> %d</div>`, r.TotalOrders)
	fmt.Fprintf(&b, `<div><strong>Average ticket:</strong> %s</div>`, utils.FormatMoney(r.AverageOrderValue))
	b.WriteString(`</div><h3>Top 5 products</h3><ul style="line-height: 1.6;">`)

	top := r.TopProducts
	if len(top) > 5 {
		top = top[:5]
	}
	for _, p := range top {
		fmt.Fprintf(&b, `<li><strong>%s</strong> <span style="color: #666;">(%d sold)</span> - %s</li>`,
			html.EscapeString(p.Name), p.Quantity, utils.FormatMoney(p.Revenue))
	}
	b.WriteString(`</ul></div>`)
	return subject, b.String()
}
