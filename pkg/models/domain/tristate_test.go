package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriStateOf(t *testing.T) {
	tests := []struct {
		raw      string
		expected TriState
	}{
		{"true", TriTrue},
		{"True", TriTrue},
		{"TRUE", TriTrue},
		{"1", TriTrue},
		{" true ", TriTrue},
		{"false", TriFalse},
		{"False", TriFalse},
		{"FALSE", TriFalse},
		{"0", TriFalse},
		{"", TriAbsent},
		{"   ", TriAbsent},
		{"yes", TriAbsent},
		{"N/A", TriAbsent},
		{"nan", TriAbsent},
		{"2", TriAbsent},
	}

	for _, tc := range tests {
		t.Run("raw="+tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, TriStateOf(tc.raw))
		})
	}
}

func TestTriState_Bool(t *testing.T) {
	assert.Nil(t, TriAbsent.Bool())

	v := TriTrue.Bool()
	if assert.NotNil(t, v) {
		assert.True(t, *v)
	}

	v = TriFalse.Bool()
	if assert.NotNil(t, v) {
		assert.False(t, *v)
	}
}

func TestResolutionStatus_Valid(t *testing.T) {
	for _, status := range []ResolutionStatus{
		ResolutionNone, ResolutionSanctioned, ResolutionBlocked,
		ResolutionInvestigating, ResolutionFalsePositive,
	} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, ResolutionStatus("Approved").Valid())
	assert.False(t, ResolutionStatus("sanctioned").Valid())
}
