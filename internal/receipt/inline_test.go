package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestInlineResolve(t *testing.T) {
	r := NewInlineResolver(2097152)
	ref, err := r.Resolve(context.Background(), Upload{
		Filename: "bukti.png",
		MIME:     "image/png",
		Data:     []byte("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !strings.HasPrefix(ref, "data:image/png;base64,") {
		t.Fatalf("unexpected reference prefix: %q", ref)
	}
}

func TestInlineResolveDefaultsMIME(t *testing.T) {
	r := NewInlineResolver(1024)
	ref, err := r.Resolve(context.Background(), Upload{Data: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !strings.HasPrefix(ref, "data:application/octet-stream;base64,") {
		t.Fatalf("unexpected reference prefix: %q", ref)
	}
}

func TestInlineResolveEmpty(t *testing.T) {
	r := NewInlineResolver(2097152)
	if _, err := r.Resolve(context.Background(), Upload{}); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("got %v, want ErrEmptyPayload", err)
	}
}

func TestInlineResolveTooLarge(t *testing.T) {
	r := NewInlineResolver(16)
	_, err := r.Resolve(context.Background(), Upload{Data: make([]byte, 17)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("got %v, want ErrPayloadTooLarge", err)
	}
	// At the limit is still accepted.
	if _, err := r.Resolve(context.Background(), Upload{Data: make([]byte, 16)}); err != nil {
		t.Fatalf("expected ok at limit, got %v", err)
	}
}
