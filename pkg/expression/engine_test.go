package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Evaluate(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		expr     string
		env      map[string]interface{}
		expected interface{}
		wantErr  bool
	}{
		{
			name:     "Simple Math",
			expr:     "1 + 1",
			expected: 2,
		},
		{
			name:     "String Function",
			expr:     "LEN(company)",
			env:      map[string]interface{}{"company": "Acme"},
			expected: 4,
		},
		{
			name:     "String Function Multibyte",
			expr:     "LEN(company)",
			env:      map[string]interface{}{"company": "Жук и Ко"},
			expected: 8,
		},
		{
			name:     "Blank",
			expr:     "BLANK(phone)",
			env:      map[string]interface{}{"phone": "  "},
			expected: true,
		},
		{
			name:     "If",
			expr:     "IF(rating > 3, 'hot', 'cold')",
			env:      map[string]interface{}{"rating": 4},
			expected: "hot",
		},
		{
			name:    "Syntax Error",
			expr:    "rating >",
			env:     map[string]interface{}{"rating": 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, tt.env)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEngine_EvaluateBool(t *testing.T) {
	e := NewEngine()

	ok, err := e.EvaluateBool("status == 'rejected' && BLANK(background_info)", map[string]interface{}{
		"status":          "rejected",
		"background_info": "",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.EvaluateBool("LEN(name)", map[string]interface{}{"name": "x"})
	assert.Error(t, err)
}

func TestEngine_RegisterFunctionResetsCache(t *testing.T) {
	e := NewEngine()
	e.RegisterFunction("ANSWER", func(params ...interface{}) (interface{}, error) { return 42, nil })

	got, err := e.Evaluate("ANSWER()", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
