package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog struct {
	decls []Declaration
	err   error
}

func (c staticCatalog) Declarations(context.Context) ([]Declaration, error) {
	return c.decls, c.err
}

func TestPopulate_KeepsAdapterOrder(t *testing.T) {
	t.Parallel()

	r := New()
	err := r.Populate(context.Background(), staticCatalog{decls: []Declaration{
		{Kind: DeclProtocol, Name: "obi"},
		{Kind: DeclProtocol, Name: "apb"},
		{Kind: DeclProtocol, Name: "axi"},
		{Kind: DeclAdapter, Name: "obi2axi", From: "obi", To: "axi"},
		{Kind: DeclAdapter, Name: "axi2apb", From: "axi", To: "apb"},
		{Kind: DeclInterconnect, Name: "obi_interconnect", Protocol: "obi"},
	}})
	require.NoError(t, err)

	assert.Equal(t, []Adapter{
		{Name: "obi2axi", From: "obi", To: "axi"},
		{Name: "axi2apb", From: "axi", To: "apb"},
	}, r.Adapters())
	assert.Equal(t, []string{"obi", "apb", "axi"}, r.Protocols())

	a, ok := r.Adapter(AdapterName("axi", "apb"))
	require.True(t, ok)
	assert.Equal(t, "axi", a.From)

	def, ok := r.Interconnect("obi")
	require.True(t, ok)
	assert.Equal(t, "obi_interconnect", def)

	_, ok = r.Interconnect("apb")
	assert.False(t, ok)
	require.NoError(t, r.Validate(context.Background()))
}

func TestPopulate_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		catalog staticCatalog
		errMsg  string
	}{
		{
			name:    "catalog failure",
			catalog: staticCatalog{err: errors.New("boom")},
			errMsg:  "failed to read declarations: boom",
		},
		{
			name: "duplicate adapter",
			catalog: staticCatalog{decls: []Declaration{
				{Kind: DeclAdapter, Name: "a2b", From: "a", To: "b"},
				{Kind: DeclAdapter, Name: "a2b", From: "a", To: "b"},
			}},
			errMsg: `adapter "a2b" is already registered`,
		},
		{
			name: "duplicate interconnect",
			catalog: staticCatalog{decls: []Declaration{
				{Kind: DeclInterconnect, Name: "x", Protocol: "apb"},
				{Kind: DeclInterconnect, Name: "y", Protocol: "apb"},
			}},
			errMsg: `protocol "apb" already has interconnect "x"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := New().Populate(context.Background(), tc.catalog)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterProtocol("obi")
	require.NoError(t, r.RegisterAdapter(Adapter{Name: "obi2apb", From: "obi", To: "apb"}))
	require.NoError(t, r.RegisterAdapter(Adapter{Name: "obi2obi", From: "obi", To: "obi"}))
	require.NoError(t, r.RegisterInterconnect("tl", "tl_interconnect"))

	err := r.Validate(context.Background())
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "registry validation failed:")
	assert.Contains(t, msg, "adapter 'obi2apb': output protocol 'apb' is not declared")
	assert.Contains(t, msg, "adapter 'obi2obi': input and output protocol are both 'obi'")
	assert.Contains(t, msg, "interconnect 'tl_interconnect': protocol 'tl' is not declared")
}
