package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "15-03-2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{input: " 29-02-2024 ", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{input: "29-02-2023", wantErr: true},
		{input: "2024-03-15", wantErr: true},
		{input: "5-3-2024", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestTransaction_ParsedDate(t *testing.T) {
	valid := Transaction{Date: "01-01-2024"}
	assert.Equal(t, 2024, valid.ParsedDate().Year())

	broken := Transaction{Date: "soon"}
	assert.True(t, broken.ParsedDate().IsZero())
	assert.True(t, broken.ParsedDate().Before(valid.ParsedDate()))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05-11-2023", FormatDate(time.Date(2023, 11, 5, 22, 0, 0, 0, time.UTC)))
}

func TestTransaction_HasCategory(t *testing.T) {
	assert.False(t, Transaction{}.HasCategory())
	assert.True(t, Transaction{CategoryID: "c1"}.HasCategory())
}
