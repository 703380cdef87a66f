package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportNumber(t *testing.T) {
	tests := []struct {
		name     string
		seq      int
		expected string
	}{
		{
			name:     "First Report",
			seq:      1,
			expected: "LAP-00001",
		},
		{
			name:     "Padded",
			seq:      42,
			expected: "LAP-00042",
		},
		{
			name:     "Beyond Padding",
			seq:      123456,
			expected: "LAP-123456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReportNumber(tt.seq))
		})
	}
}

func TestValidItemCode(t *testing.T) {
	assert.True(t, ValidItemCode("BRG-01"))
	assert.True(t, ValidItemCode("BRG-123"))
	assert.False(t, ValidItemCode("BRG-1"))
	assert.False(t, ValidItemCode("brg-01"))
	assert.False(t, ValidItemCode("LAP-00001"))
	assert.False(t, ValidItemCode(""))
}

func TestNewCondition(t *testing.T) {
	for _, value := range []string{"baik", "rusak ringan", "rusak berat"} {
		condition, err := NewCondition(value)
		assert.NoError(t, err)
		assert.Equal(t, Condition(value), condition)
	}

	_, err := NewCondition("hancur")
	assert.Error(t, err)
}

func TestNewItemStatus(t *testing.T) {
	_, err := NewItemStatus("tersedia")
	assert.NoError(t, err)

	_, err = NewItemStatus("unknown")
	assert.Error(t, err)
}
