package notifications

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/KEBA-mall/sto-backend/domain"
)

// TwilioServiceImpl implements domain.SmsSender
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioService creates a new Twilio SMS sender
func NewTwilioService(accountSID, authToken, fromNumber string) domain.SmsSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
	}
}

// SendSMS implements domain.SmsSender
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		fmt.Printf("[MOCK SMS] To: %s, Message: %s\n", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}
