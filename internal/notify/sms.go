package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(accountSid, authToken, from string) *SMSSender {
	return &SMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *SMSSender) Channel() string { return "sms" }

// Accepts only E.164 numbers.
func (s *SMSSender) Accepts(to Contact) bool {
	return strings.HasPrefix(to.Phone, "+")
}

func (s *SMSSender) Send(_ context.Context, to Contact, msg Message) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to.Phone)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.ErrorCode != nil {
		return fmt.Errorf("twilio error code %d", *resp.ErrorCode)
	}
	return nil
}
