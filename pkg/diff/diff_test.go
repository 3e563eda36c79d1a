package diff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     Stat
	}{
		{"equal", "# Hi\n", "# Hi\n", Stat{}},
		{"append", "abc", "abcdef", Stat{Inserted: 3, Distance: 3}},
		{"remove", "abcdef", "abc", Stat{Deleted: 3, Distance: 3}},
		{"replace", "![](a.png)", "![](b.png)", Stat{Inserted: 1, Deleted: 1, Distance: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.old, tt.new)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.old == tt.new, got.Equal())
		})
	}
}

// 相同内容距离为 0，不同内容距离大于 0
func TestCompare_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("distance is zero only for equal text", prop.ForAll(
		func(a, b string) bool {
			st := Compare(a, b)
			if a == b {
				return st.Equal()
			}
			return st.Distance > 0 && st.Inserted+st.Deleted > 0
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
