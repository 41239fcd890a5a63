package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/learnhub/lms-platform/internal/core/ports"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
{{template "content" .}}
<p style="color: #888; font-size: 12px;">If you did not request this email you can ignore it.</p>
</body>
</html>`

var contents = map[ports.MailTemplate]string{
	ports.TemplateActivateAccount: `{{define "content"}}
<h2>Welcome to the learning platform</h2>
<p>Hello {{.Name}},</p>
<p>Your activation code is <strong>{{.Code}}</strong>. It is valid for 15 minutes.</p>
<p><a href="{{.Link}}">Activate your account</a></p>
{{end}}`,
	ports.TemplateResetPassword: `{{define "content"}}
<h2>Password reset</h2>
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. The link below is valid for 60 minutes.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
{{end}}`,
}

// Renderer turns a MailMessage into an HTML body.
type Renderer struct {
	templates map[ports.MailTemplate]*template.Template
}

// NewRenderer parses every known template once.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[ports.MailTemplate]*template.Template, len(contents))}
	for name, body := range contents {
		t, err := template.New(string(name)).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes the template named by msg.Template.
func (r *Renderer) Render(msg ports.MailMessage) (string, error) {
	t, ok := r.templates[msg.Template]
	if !ok {
		return "", fmt.Errorf("unknown mail template %q", msg.Template)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("render %s: %w", msg.Template, err)
	}
	return buf.String(), nil
}
