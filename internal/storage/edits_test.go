package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func TestParseFieldEdit(t *testing.T) {
	tests := []struct {
		want  FieldEdit
		field string
		value string
	}{
		{field: "date", value: "01-01-2024", want: DateEdit{Date: "01-01-2024"}},
		{field: "AMOUNT", value: "3,5", want: AmountEdit{Amount: "3,5"}},
		{field: "category_id", value: "c1", want: CategoryEdit{CategoryID: "c1"}},
		{field: "category", value: "", want: CategoryEdit{}},
		{field: " description ", value: "x", want: DescriptionEdit{Description: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := ParseFieldEdit(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFieldEdit("type", "income")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, FieldDate, DateEdit{}.Field())
	assert.Equal(t, FieldAmount, AmountEdit{}.Field())
	assert.Equal(t, FieldCategory, CategoryEdit{}.Field())
	assert.Equal(t, FieldDescription, DescriptionEdit{}.Field())
}
