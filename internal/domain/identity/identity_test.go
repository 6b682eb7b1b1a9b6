package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two tokens", "Maria Petrova", "Maria"},
		{"three tokens", "Anna Maria Lopez", "Anna"},
		{"single token", "Madonna", "Madonna"},
		{"extra whitespace", "  John   Smith ", "John"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstToken(tt.in))
		})
	}
}

func TestEmailLocalPart(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"normal address", "maria.p@example.com", "maria.p"},
		{"trimmed", "  jdoe@example.com ", "jdoe"},
		{"no at sign", "not-an-email", ""},
		{"leading at sign", "@example.com", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailLocalPart(tt.in))
		})
	}
}

func TestLocalProfile_IsEmpty(t *testing.T) {
	assert.True(t, LocalProfile{}.IsEmpty())
	assert.True(t, LocalProfile{FullName: "  "}.IsEmpty())
	assert.False(t, LocalProfile{FullName: "Maria"}.IsEmpty())
	assert.False(t, LocalProfile{Email: "m@example.com"}.IsEmpty())
}
