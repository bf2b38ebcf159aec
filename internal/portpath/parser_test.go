package portpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected *Path
		errMsg   string
	}{
		{
			name:     "direct child port",
			raw:      "cpu.m_",
			expected: &Path{Module: []string{"cpu"}, Prefix: "m_", Index: -1},
		},
		{
			name:     "nested module path",
			raw:      "periph.uart0.s_",
			expected: &Path{Module: []string{"periph", "uart0"}, Prefix: "s_", Index: -1},
		},
		{
			name:     "fanned out port",
			raw:      "mem.s_[1]",
			expected: &Path{Module: []string{"mem"}, Prefix: "s_", Index: 1},
		},
		{
			name:     "empty prefix",
			raw:      "dma.",
			expected: &Path{Module: []string{"dma"}, Prefix: "", Index: -1},
		},
		{name: "error - empty", raw: "", errMsg: "cannot be empty"},
		{name: "error - no dot", raw: "cpu", errMsg: "must have the form"},
		{name: "error - empty module", raw: ".s_", errMsg: "empty module path"},
		{name: "error - empty segment", raw: "a..s_", errMsg: "empty segment"},
		{name: "error - bad segment", raw: "a b.s_", errMsg: "invalid module segment"},
		{name: "error - bad index", raw: "mem.s_[x]", errMsg: "invalid port prefix"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := Parse(tc.raw)
			if tc.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestPath_RoundTrip(t *testing.T) {
	for _, raw := range []string{"cpu.m_", "periph.uart0.s_", "mem.s_[3]", "dma."} {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, p.String())

			again, err := Parse(p.String())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

func TestPath_Equal(t *testing.T) {
	a := New([]string{"cpu"}, "m_", -1)
	b, _ := Parse("cpu.m_")
	c, _ := Parse("cpu.m_[0]")
	d, _ := Parse("dma.m_")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Path)(nil).Equal(nil))
	assert.Equal(t, "cpu", a.ModulePath())
}
