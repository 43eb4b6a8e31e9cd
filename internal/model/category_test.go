package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "income", want: KindIncome},
		{input: " Expense ", want: KindExpense},
		{input: "INCOME", want: KindIncome},
		{input: "", wantErr: true},
		{input: "transfer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "groceries", NormalizeName("  Groceries "))
	assert.Equal(t, NormalizeName("ALICE_01"), NormalizeName("alice_01"))
	assert.Equal(t, "", NormalizeName("   "))
}
