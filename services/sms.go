package services

import (
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SmsSender delivers a single text message. No retry semantics are
// assumed; a failed send is final for that digest firing.
type SmsSender interface {
	Send(to, body string) error
}

// TwilioSender sends through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender returns nil when credentials are missing, which
// switches SMS delivery off without failing the rest of the app.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
