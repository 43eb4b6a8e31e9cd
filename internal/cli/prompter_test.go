package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{name: "successful read", input: "alice_01\n", expected: "alice_01"},
		{name: "trims whitespace", input: "  alice_01  \r\n", expected: "alice_01"},
		{name: "empty line", input: "\n", expected: ""},
		{name: "last line without newline", input: "bob_02", expected: "bob_02"},
		{name: "no input", input: "", err: ErrInputClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Ask(context.Background(), "Username")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Contains(t, out.String(), "Username")
		})
	}
}

func TestPrompter_AskRequired(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n   \nGroceries\n"), &out)

	got, err := p.AskRequired(context.Background(), "Category")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)
	assert.Equal(t, 2, strings.Count(out.String(), "A value is required"))
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "y\n", expected: true},
		{name: "upper case yes", input: "Y\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "retries on garbage", input: "maybe\ny\n", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrompter_SecretFallsBackToLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hunter22\n"), &out)

	got, err := p.Secret(context.Background(), "Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got)
}

// blockingReader never returns until closed.
type blockingReader struct{ done chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.done
	return 0, io.EOF
}

func TestPrompter_CanceledContext(t *testing.T) {
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)

	p := NewPrompter(r, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Ask(ctx, "Amount")
	assert.True(t, errors.Is(err, ErrInputCancelled))
}
