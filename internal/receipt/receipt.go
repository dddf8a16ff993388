// Package receipt turns an uploaded proof-of-payment image into a
// storable reference: either an inline data URI or a Google Drive link,
// selected by deployment configuration.
package receipt

import (
	"context"
	"errors"
	"fmt"
)

// Upload is one raw image payload as received from the form.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

// Resolver produces a receipt reference for an upload, or fails.
// There is no retry behaviour: a failed resolution is terminal for the
// call and must be resubmitted by the user.
type Resolver interface {
	Resolve(ctx context.Context, up Upload) (string, error)
}

var (
	ErrEmptyPayload    = errors.New("empty receipt payload")
	ErrPayloadTooLarge = errors.New("receipt payload too large")
	ErrUploadFailed    = errors.New("receipt upload failed")
)

// checkPayload applies the size checks shared by every strategy.
func checkPayload(up Upload, maxBytes int64) error {
	if len(up.Data) == 0 {
		return ErrEmptyPayload
	}
	if int64(len(up.Data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, len(up.Data), maxBytes)
	}
	return nil
}
