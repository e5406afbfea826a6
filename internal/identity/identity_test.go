package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "jane.doe"},
		{"bob@school.edu", "bob"},
		{"no-at-sign", "Unknown"},
		{"@example.com", "Unknown"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		s := Session{Email: tt.email}
		assert.Equal(t, tt.want, s.DisplayName(), "email=%q", tt.email)
	}
}

func TestStaticProvider(t *testing.T) {
	p := Static{Session: Session{Subject: "1", Email: "a@x.com"}}
	sess, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.Email)

	_, err = Static{}.CurrentSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
