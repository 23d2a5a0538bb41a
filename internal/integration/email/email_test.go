// internal/integration/email/email_test.go
package email

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/content"
	"sitenotify/internal/integration"
	"sitenotify/internal/trigger"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestRepo() *content.MemoryRepository {
	repo := content.NewMemoryRepository()
	repo.Users[1] = &content.User{ID: 1, Email: "editor1@example.test", Role: "editor"}
	repo.Users[2] = &content.User{ID: 2, Email: "editor2@example.test", Role: "editor"}
	repo.Users[3] = &content.User{ID: 3, Email: "author@example.test", Role: "author"}
	return repo
}

func createIntegration(sesClient SESService) *Integration {
	return New(Config{FromEmail: "notify@example.test", FromName: "Notify"}, sesClient, createTestRepo(), logger.NewNoOpLogger())
}

func createDelivery(settings map[string]interface{}) *integration.Delivery {
	return &integration.Delivery{
		Trigger:      &trigger.FireContext{TriggerSlug: "post-published"},
		RuleTitle:    "New post alert",
		ConnectionID: "c1",
		Settings:     settings,
	}
}

func recipientEntry(kind, value string) interface{} {
	return map[string]interface{}{"type": kind, "value": value}
}

// ==========================
// Recipient Resolution Tests
// ==========================

func TestIntegration_Send_ResolvesRecipients(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		expected []string
	}{
		{
			name: "custom recipient",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails": []interface{}{recipientEntry("custom", "a@x.com")},
			},
			expected: []string{"a@x.com"},
		},
		{
			name: "role expands to every holder",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails": []interface{}{recipientEntry("role", "editor")},
			},
			expected: []string{"editor1@example.test", "editor2@example.test"},
		},
		{
			name: "user resolves by id",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails": []interface{}{recipientEntry("user", "3")},
			},
			expected: []string{"author@example.test"},
		},
		{
			name: "invalid custom address dropped",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails": []interface{}{
					recipientEntry("custom", "not-an-email"),
					recipientEntry("custom", "a@x.com"),
				},
			},
			expected: []string{"a@x.com"},
		},
		{
			name: "excluded set-difference",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails":          []interface{}{recipientEntry("role", "editor")},
				"excluded_emails": []interface{}{recipientEntry("user", "1")},
			},
			expected: []string{"editor2@example.test"},
		},
		{
			name: "duplicates collapse",
			settings: map[string]interface{}{
				"subject": "s", "body": "b",
				"emails": []interface{}{
					recipientEntry("custom", "editor1@example.test"),
					recipientEntry("user", "1"),
				},
			},
			expected: []string{"editor1@example.test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSES := &MockSES{}
			mockSES.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{}, nil)

			err := createIntegration(mockSES).Send(context.Background(), createDelivery(tt.settings))
			require.NoError(t, err)

			input := mockSES.Calls[0].Arguments.Get(1).(*ses.SendEmailInput)
			assert.ElementsMatch(t, tt.expected, input.Destination.ToAddresses)
		})
	}
}

// ==========================
// Failure Tests
// ==========================

func TestIntegration_Send_EmptyRecipients(t *testing.T) {
	mockSES := &MockSES{}
	settings := map[string]interface{}{
		"subject": "s", "body": "b",
		"emails":          []interface{}{recipientEntry("role", "editor")},
		"excluded_emails": []interface{}{recipientEntry("role", "editor")},
	}

	err := createIntegration(mockSES).Send(context.Background(), createDelivery(settings))
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEmptyRecipients, stdErr.Code)
	mockSES.AssertNotCalled(t, "SendEmail")
}

func TestIntegration_Send_TransportError(t *testing.T) {
	mockSES := &MockSES{}
	mockSES.On("SendEmail", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	settings := map[string]interface{}{
		"subject": "s", "body": "b",
		"emails": []interface{}{recipientEntry("custom", "a@x.com")},
	}
	err := createIntegration(mockSES).Send(context.Background(), createDelivery(settings))
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTransportFailed, stdErr.Code)
}

func TestIntegration_Ready(t *testing.T) {
	ready := New(Config{FromEmail: "n@x.com"}, &MockSES{}, createTestRepo(), logger.NewNoOpLogger())
	assert.NoError(t, ready.Ready())

	unconfigured := New(Config{}, &MockSES{}, createTestRepo(), logger.NewNoOpLogger())
	assert.Error(t, unconfigured.Ready())
}
