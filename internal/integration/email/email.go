// internal/integration/email/email.go
package email

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/content"
	"sitenotify/internal/integration"
)

const Slug = "email"

// Recipient entry types accepted in the emails / excluded_emails lists.
const (
	RecipientCustom = "custom"
	RecipientRole   = "role"
	RecipientUser   = "user"
)

// SESService is the slice of the SES client the integration needs,
// kept narrow for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Config struct {
	FromEmail string
	FromName  string
}

// Integration delivers HTML mail through SES. Recipient lists resolve
// through the content repository so role entries expand to every user
// holding that role.
type Integration struct {
	config Config
	ses    SESService
	repo   content.Repository
	logger logger.Logger
}

func New(config Config, sesClient SESService, repo content.Repository, log logger.Logger) *Integration {
	return &Integration{
		config: config,
		ses:    sesClient,
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"integration": Slug}),
	}
}

func (i *Integration) Slug() string { return Slug }
func (i *Integration) Name() string { return "Email" }

func (i *Integration) Ready() error {
	if i.config.FromEmail == "" {
		return errors.NewIntegrationNotConfiguredError(Slug, "from_email is not configured")
	}
	return nil
}

func (i *Integration) Schema() *integration.Object {
	recipientItem := &integration.Property{
		Type: "object",
		Properties: map[string]integration.Property{
			"type": {
				Type:     "string",
				Required: true,
				Enum:     []string{RecipientCustom, RecipientRole, RecipientUser},
			},
			"value": {
				Type:     "string",
				Required: true,
				Sanitize: integration.StringSanitizer(integration.SanitizeText),
			},
		},
	}
	return integration.NewObject(
		integration.Field{Key: "subject", Property: integration.Property{
			Type:     "string",
			Label:    "Subject",
			Required: true,
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "body", Property: integration.Property{
			Type:     "string",
			Label:    "Body",
			Required: true,
		}},
		integration.Field{Key: "emails", Property: integration.Property{
			Type:     "array",
			Label:    "Recipients",
			Required: true,
			Items:    recipientItem,
		}},
		integration.Field{Key: "excluded_emails", Property: integration.Property{
			Type:  "array",
			Label: "Excluded recipients",
			Items: recipientItem,
		}},
	)
}

// Send resolves the recipient lists, subtracts exclusions and mails the
// remainder as a single HTML message.
func (i *Integration) Send(ctx context.Context, d *integration.Delivery) error {
	recipients, err := i.resolveList(ctx, d.Settings["emails"])
	if err != nil {
		return err
	}
	excluded, err := i.resolveList(ctx, d.Settings["excluded_emails"])
	if err != nil {
		return err
	}

	final := subtract(recipients, excluded)
	if len(final) == 0 {
		return errors.NewEmptyRecipientsError(Slug)
	}

	subject, _ := d.Settings["subject"].(string)
	body, _ := d.Settings["body"].(string)

	source := i.config.FromEmail
	if i.config.FromName != "" {
		source = i.config.FromName + " <" + i.config.FromEmail + ">"
	}

	_, err = i.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: final},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(source),
	})
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}

	i.logger.Debug("email sent", map[string]interface{}{
		"recipients": len(final),
		"connection": d.ConnectionID,
	})
	return nil
}

// resolveList expands a recipients setting into concrete addresses.
// Invalid custom entries and unresolvable users are dropped, not fatal;
// only a repository failure aborts.
func (i *Integration) resolveList(ctx context.Context, raw interface{}) ([]string, error) {
	entries, _ := raw.([]interface{})
	var out []string
	for _, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		kind, _ := entry["type"].(string)
		value, _ := entry["value"].(string)
		switch kind {
		case RecipientCustom:
			if integration.IsValidEmail(value) {
				out = append(out, value)
			}
		case RecipientRole:
			users, err := i.repo.UsersByRole(ctx, value)
			if err != nil {
				return nil, errors.NewTransportError(Slug, err)
			}
			for _, u := range users {
				if u.Email != "" {
					out = append(out, u.Email)
				}
			}
		case RecipientUser:
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}
			user, err := i.repo.GetUser(ctx, id)
			if err == content.ErrNotFound {
				continue
			}
			if err != nil {
				return nil, errors.NewTransportError(Slug, err)
			}
			if user.Email != "" {
				out = append(out, user.Email)
			}
		}
	}
	return out, nil
}

// subtract removes excluded addresses and deduplicates while keeping
// first-seen order.
func subtract(recipients, excluded []string) []string {
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		if _, ok := skip[r]; ok {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
