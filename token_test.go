package yellowdi_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/JoanBelder/yellowdi"
)

func TestToken_AnonymousTokensAlwaysDiffer(t *testing.T) {
	assert.True(t, yellowdi.NewToken() != yellowdi.NewToken())
}

func TestToken_DifferentNamesDiffer(t *testing.T) {
	assert.True(t, yellowdi.NewToken("A") != yellowdi.NewToken("B"))
}

func TestToken_RepeatedNamesInternedViaConstructor(t *testing.T) {
	assert.True(t, yellowdi.NewToken("A") == yellowdi.NewToken("A"))
	assert.True(t, yellowdi.NewToken("B") == yellowdi.NewToken("B"))
}

func TestToken_RepeatedNamesInternedViaAccessor(t *testing.T) {
	assert.True(t, yellowdi.TokenFor("A") == yellowdi.TokenFor("A"))
	assert.True(t, yellowdi.TokenFor("B") == yellowdi.TokenFor("B"))
}

func TestToken_MixedConstructionStyles(t *testing.T) {
	assert.True(t, yellowdi.TokenFor("A") == yellowdi.NewToken("A"))
	assert.True(t, yellowdi.NewToken("B") == yellowdi.TokenFor("B"))
}

func TestToken_Name(t *testing.T) {
	name, ok := yellowdi.NewToken("named").Name()
	require.True(t, ok)
	assert.Equal(t, "named", name)

	_, ok = yellowdi.NewToken().Name()
	assert.False(t, ok)
}

func TestToken_UsableAsMapKey(t *testing.T) {
	lookup := map[yellowdi.Token]string{
		yellowdi.NewToken("map-key"): "value",
	}
	assert.Equal(t, "value", lookup[yellowdi.TokenFor("map-key")])
}

func TestToken_NamedSurvivesJSONRoundTrip(t *testing.T) {
	token := yellowdi.NewToken("persisted")

	data, err := json.Marshal(token)
	require.NoError(t, err)

	var decoded yellowdi.Token
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded == token)
}

func TestToken_AnonymousJSONRoundTripKeepsID(t *testing.T) {
	token := yellowdi.NewToken()

	data, err := json.Marshal(token)
	require.NoError(t, err)

	var decoded yellowdi.Token
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Anonymous identity does not survive, but the serialized id does.
	assert.True(t, decoded != token)
	assert.Equal(t, token.String(), decoded.String())
}

func TestToken_NamedSurvivesYAMLRoundTrip(t *testing.T) {
	token := yellowdi.NewToken("yaml-persisted")

	data, err := yaml.Marshal(token)
	require.NoError(t, err)

	var decoded yellowdi.Token
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.True(t, decoded == token)
}

func TestToken_ConcurrentInterningYieldsOneInstance(t *testing.T) {
	const goroutines = 32

	var wg sync.WaitGroup
	tokens := make([]yellowdi.Token, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = yellowdi.TokenFor("raced")
		}(i)
	}
	wg.Wait()

	for _, token := range tokens[1:] {
		require.True(t, token == tokens[0])
	}
}
