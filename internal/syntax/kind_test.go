package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name   string
		want   Kind
		wantOK bool
	}{
		{"Call", KindCall, true},
		{"call", KindCall, true},
		{"call expression", KindCall, true},
		{"call_expression", KindCall, true},
		{"CallExpression", KindCall, true},
		{" ImportFrom ", KindImportFrom, true},
		{"import_from_statement", KindImportFrom, true},
		{"function definition", KindFunctionDef, true},
		{"Assign", KindAssign, true},
		{"assignment", KindAssign, true},
		{"AnnAssign", KindAnnAssign, true},
		{"annotated assignment", KindAnnAssign, true},
		{"future_import_statement", KindImportFrom, true},
		{"Lambda", KindLambda, true},
		{"Cal", KindUnknown, false},
		{"Name", KindUnknown, false},
		{"", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Call", KindCall.String())
	assert.Equal(t, "Global", KindGlobal.String())
	assert.Equal(t, "Unknown", KindUnknown.String())
	assert.Equal(t, "Other", KindOther.String())
	assert.Equal(t, "Unknown", Kind(999).String())
}

func TestSupportedKindsRoundTrip(t *testing.T) {
	names := SupportedKinds()
	assert.Len(t, names, len(kinds))
	for _, name := range names {
		k, ok := ParseKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, k.String())
	}
}
