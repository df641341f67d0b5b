package core

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	origConf := Conf
	Conf = &Config{
		AppName:         "ClubHub",
		FrontendBaseURL: "https://clubhub.test",
		TestMode:        true,
	}
	t.Cleanup(func() { Conf = origConf })

	t.Run("templated message", func(t *testing.T) {
		m := &EmailMessage{
			To:           []mail.Address{{Name: "Jamie Doe", Address: "jamie@test.test"}},
			Subject:      "Password reset",
			TemplateName: "password-reset",
			TemplateData: struct {
				Name  string
				UID   string
				Token string
			}{"Jamie Doe", "uid123", "tok456"},
		}
		require.NoError(t, m.Render())

		require.True(t, m.HasContent())
		assert.Contains(t, m.TextContent, "Jamie Doe")
		assert.Contains(t, m.TextContent, "https://clubhub.test/password-reset/uid123/tok456")
		assert.Contains(t, m.TextContent, "ClubHub Team")
		assert.Contains(t, m.HTMLContent, "uid123/tok456")
	})

	t.Run("plain body", func(t *testing.T) {
		m := &EmailMessage{BodyStr: "hello there"}
		require.NoError(t, m.Render())
		assert.Equal(t, "hello there", m.TextContent)
		assert.Empty(t, m.HTMLContent)
	})
}
