package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

var emailHTMLTemplate = htmltemplate.Must(htmltemplate.New("email_html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2 style="color: #b91c1c;">{{.Urgency}}: New {{.Peril}} damage job in {{.Location}}</h2>
  <p>Hi {{.Greeting}},</p>
  <p>A property owner needs help with {{.Peril}} damage and you are one of the contractors we selected.</p>
  <table cellpadding="4">
    <tr><td><strong>Location</strong></td><td>{{if .Address}}{{.Address}}, {{end}}{{.Location}}</td></tr>
    <tr><td><strong>Damage</strong></td><td>{{.Peril}}</td></tr>
    {{if .Description}}<tr><td><strong>Details</strong></td><td>{{.Description}}</td></tr>{{end}}
    <tr><td><strong>Contact</strong></td><td>{{.ContactName}}{{if .ContactPhone}} &middot; {{.ContactPhone}}{{end}}{{if .ContactEmail}} &middot; {{.ContactEmail}}{{end}}</td></tr>
    <tr><td><strong>Preferred inspection</strong></td><td>{{.PreferredDate}}{{if .PreferredWindow}} ({{.PreferredWindow}}){{end}}</td></tr>
  </table>
  {{if .Reasons}}<p><strong>Why you were selected:</strong></p>
  <ul>{{range .Reasons}}<li>{{.}}</li>{{end}}</ul>{{end}}
  <p>
    <a href="{{.AcceptURL}}" style="background: #15803d; color: #fff; padding: 10px 18px; text-decoration: none;">Accept job</a>
    &nbsp;
    <a href="{{.DeclineURL}}" style="background: #6b7280; color: #fff; padding: 10px 18px; text-decoration: none;">Decline</a>
  </p>
  <p>This invitation expires in {{.ExpiryHours}} hours. Other contractors have been invited as well.</p>
</body>
</html>`))

var emailTextTemplate = texttemplate.Must(texttemplate.New("email_text").Parse(`{{.Urgency}}: New {{.Peril}} damage job in {{.Location}}

Hi {{.Greeting}},

A property owner needs help with {{.Peril}} damage and you are one of the contractors we selected.

Location: {{if .Address}}{{.Address}}, {{end}}{{.Location}}
Damage: {{.Peril}}
{{if .Description}}Details: {{.Description}}
{{end}}Contact: {{.ContactName}}{{if .ContactPhone}} {{.ContactPhone}}{{end}}{{if .ContactEmail}} {{.ContactEmail}}{{end}}
Preferred inspection: {{.PreferredDate}}{{if .PreferredWindow}} ({{.PreferredWindow}}){{end}}
{{if .Reasons}}
Why you were selected:
{{range .Reasons}}- {{.}}
{{end}}{{end}}
Accept job: {{.AcceptURL}}
Decline: {{.DeclineURL}}

This invitation expires in {{.ExpiryHours}} hours.
`))

var smsTemplate = texttemplate.Must(texttemplate.New("sms").Funcs(texttemplate.FuncMap{"join": strings.Join}).Parse(
	`{{.Urgency}}: New {{.Peril}} damage job in {{.Location}}.` +
		`{{if .Description}} {{.Description}}{{end}}` +
		` Contact: {{.ContactName}}{{if .ContactPhone}} {{.ContactPhone}}{{end}}.` +
		` Preferred: {{.PreferredDate}}{{if .PreferredWindow}} {{.PreferredWindow}}{{end}}.` +
		`{{if .Reasons}} Why you: {{join .Reasons "; "}}.{{end}}` +
		` Accept: {{.AcceptURL}} Decline: {{.DeclineURL}}` +
		` Expires in {{.ExpiryHours}} hours.`,
))

// RenderEmail produces the HTML and plaintext bodies of an invitation email
func RenderEmail(inv Invitation) (html string, text string, err error) {
	v := inv.view()

	var htmlBuf, textBuf bytes.Buffer
	if err := emailHTMLTemplate.Execute(&htmlBuf, v); err != nil {
		return "", "", fmt.Errorf("failed to render email html: %w", err)
	}
	if err := emailTextTemplate.Execute(&textBuf, v); err != nil {
		return "", "", fmt.Errorf("failed to render email text: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// RenderSMS produces the single-message SMS body with a shortened description
func RenderSMS(inv Invitation) (string, error) {
	v := inv.view()
	v.Description = truncate(v.Description, smsDescriptionMax)

	var buf bytes.Buffer
	if err := smsTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("failed to render sms: %w", err)
	}
	return buf.String(), nil
}
