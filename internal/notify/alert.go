package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/tacology/feedback/internal/services"
)

// BuildAlertMessage renders the operator alert for a low-score submission.
func BuildAlertMessage(in services.AlertInput) string {
	emailDisplay := in.Email
	if emailDisplay == "" {
		emailDisplay = "no email provided"
	}
	customer := emailDisplay
	if in.Name != "" {
		customer = fmt.Sprintf("%s (%s)", in.Name, emailDisplay)
	}

	lines := []string{
		"New low-sentiment survey detected",
		"Location: " + string(in.Location),
		"Customer: " + customer,
	}
	if in.NPS != nil {
		lines = append(lines, fmt.Sprintf("NPS: %.0f", *in.NPS))
	}
	if in.Sentiment != nil {
		lines = append(lines, fmt.Sprintf("Sentiment score: %.2f", *in.Sentiment))
	}
	if in.ImprovementText != "" {
		lines = append(lines, "Feedback: "+in.ImprovementText)
	}
	return strings.Join(lines, "\n")
}

// RenderCouponEmail produces the thank-you coupon body.
func RenderCouponEmail(name, location, ctaURL string) (subject, htmlBody, textBody string) {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name)
	}
	expires := time.Now().AddDate(0, 1, 0).Format("Jan 2, 2006")

	subject = "Your 10% off coupon at Tacology"
	htmlBody = fmt.Sprintf(
		`<p>%s,</p><p>Thanks for sharing your feedback%s! Here is a 10%% off coupon for your next visit, valid through %s.</p><p><a href="%s">Book your table</a></p>`,
		greeting, locationSuffix(location), expires, html.EscapeString(ctaURL),
	)
	textBody = fmt.Sprintf(
		"%s,\n\nThanks for sharing your feedback%s! Here is a 10%% off coupon for your next visit, valid through %s.\n\nBook your table: %s\n",
		greeting, locationSuffix(location), expires, ctaURL,
	)
	return subject, htmlBody, textBody
}

func locationSuffix(location string) string {
	if location == "" {
		return ""
	}
	return " at " + strings.ToUpper(location[:1]) + location[1:]
}
