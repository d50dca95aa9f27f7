package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hashedRecord struct {
	fields map[string]any
	hash   string
}

func (r *hashedRecord) GetHashableFields() map[string]any { return r.fields }
func (r *hashedRecord) SetContentHash(hash string)        { r.hash = hash }
func (r *hashedRecord) GetContentHash() string            { return r.hash }

func TestHashFields_Normalization(t *testing.T) {
	guests := 2
	when := time.Date(2030, 3, 2, 10, 0, 0, 0, time.FixedZone("JST", 9*60*60))

	tests := []struct {
		name  string
		left  map[string]any
		right map[string]any
		equal bool
	}{
		{
			name:  "integer widths",
			left:  map[string]any{"guests": int32(2)},
			right: map[string]any{"guests": int64(2)},
			equal: true,
		},
		{
			name:  "pointer and value",
			left:  map[string]any{"guests": &guests},
			right: map[string]any{"guests": 2},
			equal: true,
		},
		{
			name:  "same instant in different zones",
			left:  map[string]any{"at": when},
			right: map[string]any{"at": when.UTC()},
			equal: true,
		},
		{
			name:  "nil pointer is null",
			left:  map[string]any{"facility": (*string)(nil)},
			right: map[string]any{"facility": nil},
			equal: true,
		},
		{
			name:  "different values",
			left:  map[string]any{"checkOut": "2030-03-02"},
			right: map[string]any{"checkOut": "2030-03-03"},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, err := HashFields(tt.left)
			require.NoError(t, err)
			right, err := HashFields(tt.right)
			require.NoError(t, err)

			assert.Len(t, left, 64)
			assert.Equal(t, tt.equal, left == right)
		})
	}
}

func TestGenerateEntityHash_IsStable(t *testing.T) {
	record := &hashedRecord{fields: map[string]any{
		"externalId": "A1",
		"guestCount": 2,
		"source":     "beds24",
	}}

	first, err := GenerateEntityHash(record)
	require.NoError(t, err)
	second, err := GenerateEntityHash(record)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	record.fields["guestCount"] = 3
	changed, err := GenerateEntityHash(record)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestHashFields_RejectsUnencodable(t *testing.T) {
	_, err := HashFields(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
