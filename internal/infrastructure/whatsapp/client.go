package whatsapp

import (
	"context"
	"strings"

	"remindbridge/internal/pkg/logger"

	"github.com/pkg/errors"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client sends WhatsApp messages through Twilio.
type Client struct {
	client       *twilio.RestClient
	fromWhatsApp string
	log          logger.Logger
}

// NewClient creates a Twilio client bound to the configured WhatsApp sender number.
func NewClient(accountSID, authToken, fromWhatsApp string, log logger.Logger) *Client {
	c := &Client{fromWhatsApp: fromWhatsApp, log: log}
	if accountSID != "" && authToken != "" {
		c.client = twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	} else {
		log.Warn("TWILIO_ACCOUNT_SID or TWILIO_AUTH_TOKEN not set, WhatsApp delivery disabled")
	}
	return c
}

// SendMessage sends body to the given phone number and returns the Twilio message SID.
func (c *Client) SendMessage(_ context.Context, to, body string) (string, error) {
	if c.client == nil {
		return "", errors.New("twilio client not initialised")
	}

	sender := NormalizeAddress(c.fromWhatsApp)
	if sender == "" {
		return "", errors.New("twilio sender WhatsApp number is not configured")
	}
	recipient := NormalizeAddress(to)
	if recipient == "" {
		return "", errors.New("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", errors.Wrap(err, "twilio send message")
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	c.log.Info("WhatsApp message sent", "to", recipient, "sid", sid)
	return sid, nil
}

// NormalizeAddress turns a phone number into Twilio's whatsapp:+<number> form.
func NormalizeAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
