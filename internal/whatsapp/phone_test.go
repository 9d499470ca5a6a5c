package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneFormat_Normalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0501234567", "971501234567"},
		{"+971 50 123 4567", "971501234567"},
		{"971501234567", "971501234567"},
		{"501234567", "971501234567"},
		{"(050) 123-4567", "971501234567"},
		// Foreign numbers pass through untouched.
		{"+33612345678", "33612345678"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := uaePhones().Normalize(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPhoneFormat_RejectsEmpty(t *testing.T) {
	_, err := uaePhones().Normalize("call me")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "971501234567@c.us", ChatID("971501234567"))
}
