package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cargo-manager/internal/model"
)

func names(crates []model.Crate) []string {
	out := make([]string, 0, len(crates))
	for _, c := range crates {
		out = append(out, c.Name)
	}
	return out
}

func TestRank(t *testing.T) {
	crates := []model.Crate{
		{Name: "tokio-util", Downloads: 200},
		{Name: "tokio", Downloads: 500},
		{Name: "tokio-macros", Downloads: 100},
		{Name: "mini-tokio", Downloads: 5},
	}

	tests := []struct {
		order    Order
		expected []string
	}{
		{OrderRelevance, []string{"tokio-util", "tokio", "tokio-macros", "mini-tokio"}},
		{OrderName, []string{"tokio", "tokio-util", "mini-tokio", "tokio-macros"}},
		{OrderDownloads, []string{"tokio", "tokio-util", "tokio-macros", "mini-tokio"}},
	}

	for _, test := range tests {
		t.Run(string(test.order), func(t *testing.T) {
			got := Rank(crates, "Tokio", test.order)
			assert.Equal(t, test.expected, names(got))
		})
	}

	assert.Equal(t, "tokio-util", crates[0].Name, "input must not be reordered")
}

func TestRank_HyphenUnderscoreEquivalent(t *testing.T) {
	crates := []model.Crate{{Name: "serde-json-core"}, {Name: "serde_json"}}
	got := Rank(crates, "serde-json", OrderName)
	assert.Equal(t, "serde_json", got[0].Name)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("Downloads")
	require.NoError(t, err)
	assert.Equal(t, OrderDownloads, o)

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderRelevance, o)

	_, err = ParseOrder("stars")
	assert.Error(t, err)

	assert.Len(t, Orders(), 3)
}
