package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodsAreComplete(t *testing.T) {
	ms := Methods()
	require.Len(t, ms, 3)

	names := make(map[string]Method, len(ms))
	for _, m := range ms {
		assert.NotEmpty(t, m.Short, m.Name)
		assert.NotEmpty(t, m.Description, m.Name)
		require.NotEmpty(t, m.Inputs, m.Name)
		require.Len(t, m.Outputs, 2, m.Name)
		for _, p := range append(append(append([]Port{}, m.Inputs...), m.Parameters...), m.Outputs...) {
			assert.NotEmpty(t, p.Name, m.Name)
			assert.NotEmpty(t, p.Type, "%s/%s", m.Name, p.Name)
			assert.NotEmpty(t, p.Description, "%s/%s", m.Name, p.Name)
		}
		names[m.Name] = m
	}

	deNovo, ok := names["cluster-features-de-novo"]
	require.True(t, ok)
	assert.Len(t, deNovo.Parameters, 2)

	closedRef, ok := names["cluster-features-closed-reference"]
	require.True(t, ok)
	assert.Len(t, closedRef.Inputs, 3)
	assert.Len(t, closedRef.Parameters, 3)

	derep, ok := names["dereplicate-sequences"]
	require.True(t, ok)
	assert.Empty(t, derep.Parameters, "dereplication takes no parameters")
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("dereplicate-sequences")
	require.True(t, ok)
	assert.Equal(t, "Dereplicate sequences.", m.Short)

	_, ok = Lookup("cluster-features-open-reference")
	assert.False(t, ok)
}

func TestParameterConstraintsDocumented(t *testing.T) {
	for _, m := range Methods() {
		for _, p := range m.Parameters {
			assert.NotEmpty(t, p.Constraint, "%s/%s should document its valid range", m.Name, p.Name)
		}
	}
}
