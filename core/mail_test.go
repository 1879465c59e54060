package core

import (
	"net/mail"
	"strings"
	"testing"
)

func TestEmailMessage_Render(t *testing.T) {
	conf := &Config{AppName: "WATAs", AppURL: "https://watas.test"}

	t.Run("template with base layout", func(t *testing.T) {
		msg := &EmailMessage{
			To:           []mail.Address{{Address: "support@watas.test"}},
			Subject:      "Support request: Bug / Issue",
			TemplateName: "support_request",
			TemplateData: map[string]string{
				"SupportType": "Bug / Issue",
				"WhatsApp":    "+233200000000",
				"Phone":       "",
				"Description": "The due date of Lab 3 is wrong.",
			},
		}
		if err := msg.Render(conf); err != nil {
			t.Fatalf("Render() failed: %v", err)
		}
		for _, want := range []string{"New support request: Bug / Issue", "WhatsApp: +233200000000", "WATAs - https://watas.test"} {
			if !strings.Contains(msg.TextContent, want) {
				t.Errorf("TextContent = %q; want it to contain %q", msg.TextContent, want)
			}
		}
		if strings.Contains(msg.TextContent, "Phone:") {
			t.Errorf("TextContent = %q; blank phone should be omitted", msg.TextContent)
		}
		if !strings.Contains(msg.HTMLContent, "<h2>New support request: Bug / Issue</h2>") {
			t.Errorf("HTMLContent = %q; missing heading", msg.HTMLContent)
		}
		if !msg.HasContent() {
			t.Error("HasContent() = false after rendering")
		}
	})

	t.Run("plain body", func(t *testing.T) {
		msg := &EmailMessage{BodyStr: "hello"}
		if err := msg.Render(conf); err != nil {
			t.Fatalf("Render() failed: %v", err)
		}
		if msg.TextContent != "hello" || msg.HTMLContent != "" {
			t.Errorf("Render() = (%q, %q); want (%q, %q)", msg.TextContent, msg.HTMLContent, "hello", "")
		}
	})
}
