package twilio

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("twilio client is not configured")

// Client defines the interface for sending SMS through the Twilio Messaging API
type Client interface {
	SendSMS(ctx context.Context, to, body string) error
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type clientImpl struct {
	api  messageCreator
	from string
	log  *zap.Logger
}

// NewClient creates a new Twilio client sending from the given number
func NewClient(accountSid, authToken, from string, log *zap.Logger) Client {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &clientImpl{
		api:  client.Api,
		from: from,
		log:  log,
	}
}

func (c *clientImpl) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.from == "" {
		return ErrNotConfigured
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("error sending sms: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	c.log.Debug("sms accepted by twilio", zap.String("to", to), zap.String("sid", sid))
	return nil
}
