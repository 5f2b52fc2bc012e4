package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dom/postgram/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "post not found", err: domain.ErrPostNotFound, want: domain.ErrNotFound},
		{name: "wrapped parent not found", err: fmt.Errorf("create reply: %w", domain.ErrParentNotFound), want: domain.ErrNotFound},
		{name: "email taken", err: domain.ErrEmailTaken, want: domain.ErrConflict},
		{name: "invalid credentials", err: domain.ErrInvalidCredentials, want: domain.ErrUnauthorized},
		{name: "not owner", err: domain.ErrNotOwner, want: domain.ErrForbidden},
		{name: "empty body", err: domain.ErrEmptyBody, want: domain.ErrValidation},
		{name: "internal", err: errors.New("connection reset"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Kind(tt.err))
		})
	}
}
