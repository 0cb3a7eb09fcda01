package channel

import "errors"

var (
	// ErrMalformedPayload is returned when a delivery is not a JSON object.
	ErrMalformedPayload = errors.New("malformed settings payload")
	// ErrNATSNotReady is returned when the embedded NATS server does not accept connections in time.
	ErrNATSNotReady = errors.New("embedded nats server not ready")
)
