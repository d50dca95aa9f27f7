package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanUTF8(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantCleaned bool
	}{
		{name: "valid", input: "Ana Müller", want: "Ana Müller"},
		{name: "nul byte", input: "Ana\x00", want: "Ana", wantCleaned: true},
		{name: "invalid sequence", input: "Ana\xffBell", want: "AnaBell", wantCleaned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cleaned := CleanUTF8(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCleaned, cleaned)
		})
	}
}
