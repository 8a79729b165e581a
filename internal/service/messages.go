package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Source form tags
const (
	FormContact     = "contact"
	FormEarlyAccess = "early-access"
	FormNewsletter  = "newsletter"
)

// Fixed sender identities and the contact inbox
const (
	SenderPrimary    = "Layer 10 Security <noreply@layer10security.io>"
	SenderTransacted = "Layer 10 Security <noreply@send.layer10security.io>"
	ContactRecipient = "info@layer10security.io"
)

const notProvided = "Not provided"

// ContactDetails is a validated contact form submission
type ContactDetails struct {
	Name    string
	Email   string
	Company string
	Subject string
	Message string
}

var htmlTemplates = template.Must(template.New("notifications").Funcs(template.FuncMap{
	"nl2br": nl2br,
}).Parse(`
{{define "contact"}}
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Company:</strong> {{.Company}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<h3>Message:</h3>
<p>{{nl2br .Message}}</p>
<hr>
<p style="color: #666; font-size: 12px;">Submitted via Layer 10 Security website at {{.Timestamp}}</p>
{{end}}
{{define "early-access"}}
<h2>New Early Access Request</h2>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Timestamp:</strong> {{.Timestamp}}</p>
<hr>
<p style="color: #666; font-size: 12px;">This request was submitted via the Layer 10 Security website.</p>
{{end}}
{{define "newsletter"}}
<h2>New Newsletter Subscription</h2>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Timestamp:</strong> {{.Timestamp}}</p>
<hr>
<p style="color: #666; font-size: 12px;">This subscription was submitted via the Layer 10 Security website.</p>
{{end}}
`))

type templateData struct {
	ContactDetails
	Timestamp string
}

// nl2br escapes s and turns newlines into line breaks
func nl2br(s string) template.HTML {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

func renderHTML(name string, data templateData) string {
	var buf bytes.Buffer
	// Templates are parsed at init and the data is plain strings
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTMLEscapeString(data.Email)
	}
	return strings.TrimSpace(buf.String())
}

// NewContactMessage builds the operator notification for a contact submission
func NewContactMessage(d ContactDetails, now time.Time) *Message {
	if d.Company == "" {
		d.Company = notProvided
	}
	ts := now.UTC().Format(time.RFC3339)

	return &Message{
		Form:    FormContact,
		From:    SenderPrimary,
		To:      []string{ContactRecipient},
		ReplyTo: d.Email,
		Subject: "[Contact Form] " + d.Subject,
		HTML:    renderHTML(FormContact, templateData{ContactDetails: d, Timestamp: ts}),
		Text: fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nCompany: %s\nSubject: %s\n\nMessage:\n%s",
			d.Name, d.Email, d.Company, d.Subject, d.Message),
	}
}

// NewEarlyAccessMessage builds the operator notification for an early access request
func NewEarlyAccessMessage(email, recipient string, now time.Time) *Message {
	ts := now.UTC().Format(time.RFC3339)

	return &Message{
		Form:    FormEarlyAccess,
		From:    SenderTransacted,
		To:      []string{recipient},
		Subject: "[Early Access Request] " + email,
		HTML:    renderHTML(FormEarlyAccess, templateData{ContactDetails: ContactDetails{Email: email}, Timestamp: ts}),
		Text:    fmt.Sprintf("New Early Access Request\n\nEmail: %s\nTimestamp: %s", email, ts),
	}
}

// NewNewsletterMessage builds the operator notification for a newsletter subscription
func NewNewsletterMessage(email, recipient string, now time.Time) *Message {
	ts := now.UTC().Format(time.RFC3339)

	return &Message{
		Form:    FormNewsletter,
		From:    SenderTransacted,
		To:      []string{recipient},
		Subject: "[Newsletter] " + email,
		HTML:    renderHTML(FormNewsletter, templateData{ContactDetails: ContactDetails{Email: email}, Timestamp: ts}),
		Text:    fmt.Sprintf("New Newsletter Subscription\n\nEmail: %s\nTimestamp: %s", email, ts),
	}
}
