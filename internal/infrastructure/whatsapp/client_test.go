package whatsapp

import (
	"context"
	"testing"

	"remindbridge/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"   ":                   "",
		"+15551234567":          "whatsapp:+15551234567",
		"15551234567":           "whatsapp:+15551234567",
		" 15551234567 ":         "whatsapp:+15551234567",
		"whatsapp:+15551234567": "whatsapp:+15551234567",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeAddress(input), "input %q", input)
	}
}

func TestSendMessage_WithoutCredentials(t *testing.T) {
	client := NewClient("", "", "+15550000000", logger.Nop())

	_, err := client.SendMessage(context.Background(), "+15551234567", "hi")
	assert.Error(t, err)
}
