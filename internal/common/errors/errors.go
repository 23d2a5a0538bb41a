// Package errors provides standardized error handling for the notification
// dispatch pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Dispatch pipeline error codes. Guard-false conditions are silent no-ops
// and never produce an error; everything below maps to a logged failure.
const (
	// Configuration errors: delivery skipped for the offending connection only.
	ErrCodeInvalidIntegration       ErrorCode = "INVALID_INTEGRATION"
	ErrCodeIntegrationNotConfigured ErrorCode = "INTEGRATION_NOT_CONFIGURED"

	// Validation errors: connection settings rejected before any send attempt.
	ErrCodeInvalidAttributes ErrorCode = "INTEGRATION_INVALID_ATTRIBUTES"
	ErrCodeEmptyRecipients   ErrorCode = "EMPTY_RECIPIENTS"

	// Transport errors: the send was attempted and failed.
	ErrCodeTransportFailed      ErrorCode = "DELIVERY_TRANSPORT_FAILED"
	ErrCodeUnexpectedStatusCode ErrorCode = "UNEXPECTED_STATUS_CODE"
	ErrCodeDeliveryPanic        ErrorCode = "DELIVERY_PANIC"

	// Pipeline infrastructure errors.
	ErrCodeContextCaptureFailed ErrorCode = "CONTEXT_CAPTURE_FAILED"
	ErrCodeRuleQueryFailed      ErrorCode = "RULE_QUERY_FAILED"
	ErrCodeQueueEnqueueFailed   ErrorCode = "QUEUE_ENQUEUE_FAILED"
	ErrCodeQueueDecodeFailed    ErrorCode = "QUEUE_DECODE_FAILED"
	ErrCodeStorageFailed        ErrorCode = "STORAGE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewInvalidIntegrationError is logged when a notification rule references
// an integration slug that is not registered.
func NewInvalidIntegrationError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidIntegration,
		Message:   "Integration not registered",
		Details:   fmt.Sprintf("integrationSlug: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntegrationNotConfiguredError is logged when an integration is missing
// site-wide configuration (e.g. a VAPID keypair) and cannot send at all.
func NewIntegrationNotConfiguredError(slug, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntegrationNotConfigured,
		Message:   fmt.Sprintf("Integration '%s' is not configured", slug),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAttributesError is logged when connection settings fail schema
// validation. The whole connection is skipped; siblings still process.
func NewInvalidAttributesError(slug string, details []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAttributes,
		Message:   fmt.Sprintf("%s_integration_invalid_attributes", slug),
		Details:   strings.Join(details, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyRecipientsError is logged when recipient resolution produces an
// empty final set and no send is attempted.
func NewEmptyRecipientsError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyRecipients,
		Message:   "Recipient list resolved to empty",
		Details:   fmt.Sprintf("integrationSlug: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError wraps a network-level delivery failure. Never retried
// automatically at this layer.
func NewTransportError(slug string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   fmt.Sprintf("Delivery via '%s' failed", slug),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryPanicError is logged when an integration panics while
// processing a connection. The panic is contained so the remaining
// connections of the rule still run.
func NewDeliveryPanicError(slug string, recovered interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryPanic,
		Message:   fmt.Sprintf("Delivery via '%s' panicked", slug),
		Details:   fmt.Sprintf("recovered: %v", recovered),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedStatusCodeError is logged when an upstream endpoint responds
// with a status code the integration treats as failure (Discord: anything
// but 204).
func NewUnexpectedStatusCodeError(slug string, status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedStatusCode,
		Message:   fmt.Sprintf("Delivery via '%s' returned unexpected status", slug),
		Details:   fmt.Sprintf("status: %d, body: %s", status, body),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContextCaptureFailedError is logged when a trigger cannot snapshot its
// related entities. The firing is abandoned without aborting the source event.
func NewContextCaptureFailedError(triggerSlug string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContextCaptureFailed,
		Message:   "Trigger context capture failed",
		Details:   fmt.Sprintf("triggerSlug: %s, error: %s", triggerSlug, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleQueryFailedError is logged when notification rules for a fired
// trigger cannot be loaded.
func NewRuleQueryFailedError(triggerSlug string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleQueryFailed,
		Message:   "Notification rule query failed",
		Details:   fmt.Sprintf("triggerSlug: %s, error: %s", triggerSlug, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueEnqueueFailedError is logged when a background queue item cannot
// be persisted.
func NewQueueEnqueueFailedError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueEnqueueFailed,
		Message:   "Background queue enqueue failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueDecodeFailedError is logged when a dequeued envelope cannot be
// decoded. The item is dropped; there is no poison queue.
func NewQueueDecodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueDecodeFailed,
		Message:   "Background queue item decode failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError wraps a persistence failure from one of the stores.
func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsConfigurationError reports whether the code belongs to the
// configuration category of the error taxonomy.
func IsConfigurationError(code ErrorCode) bool {
	return code == ErrCodeInvalidIntegration || code == ErrCodeIntegrationNotConfigured
}

// IsValidationError reports whether the code belongs to the validation
// category of the error taxonomy.
func IsValidationError(code ErrorCode) bool {
	return code == ErrCodeInvalidAttributes || code == ErrCodeEmptyRecipients
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch {
	case IsConfigurationError(code):
		return "CONFIGURATION"
	case IsValidationError(code):
		return "VALIDATION"
	case code == ErrCodeTransportFailed || code == ErrCodeUnexpectedStatusCode:
		return "TRANSPORT"
	case strings.HasPrefix(string(code), "QUEUE"):
		return "QUEUE"
	default:
		return "PIPELINE"
	}
}
