// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

type recoveryContent struct {
	Title       string
	Greeting    string
	Intro       string
	Instruction string
	Code        string
	Expiry      string
	Ignore      string
	Signature   string
}

// recoveryEmail renders the HTML part of the recovery email. Every text value
// is escaped.
func recoveryEmail(c recoveryContent) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		parts := []string{
			`<div style="font-family: Arial, sans-serif; text-align: center; color: #333; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">`,
			`<h2 style="color: #002574;">`, templ.EscapeString(c.Title), `</h2>`,
			`<p>`, templ.EscapeString(c.Greeting), `</p>`,
			`<p>`, templ.EscapeString(c.Intro), `</p>`,
			`<p>`, templ.EscapeString(c.Instruction), `</p>`,
			`<p style="font-size: 28px; font-weight: bold; letter-spacing: 3px; background-color: #f2f2f2; padding: 12px 18px; border-radius: 5px; display: inline-block;">`,
			templ.EscapeString(c.Code), `</p>`,
			`<p style="font-size: 12px; color: #888;">`, templ.EscapeString(c.Expiry), `</p>`,
			`<p>`, templ.EscapeString(c.Ignore), `</p>`,
			`<hr style="border: 0; border-top: 1px solid #ddd; margin: 20px 0;">`,
			`<p style="font-size: 12px; color: #888;">`, templ.EscapeString(c.Signature), `</p>`,
			`</div>`,
		}
		for _, p := range parts {
			if _, err := io.WriteString(w, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderHTML(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
