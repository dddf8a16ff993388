package receipt

import (
	"context"
	"encoding/base64"
)

// InlineResolver encodes the image as a data URI persisted with the
// record. No external call is made.
type InlineResolver struct {
	maxBytes int64
}

var _ Resolver = (*InlineResolver)(nil)

func NewInlineResolver(maxBytes int64) *InlineResolver {
	return &InlineResolver{maxBytes: maxBytes}
}

func (r *InlineResolver) Resolve(_ context.Context, up Upload) (string, error) {
	if err := checkPayload(up, r.maxBytes); err != nil {
		return "", err
	}
	mime := up.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(up.Data), nil
}
