package claim

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmountString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000000000000000000", "1.0"},
		{"0", "0"},
		{"", "0"},
		{"not a number", "0"},
		{"1500000000000000000", "1.5"},
		{"123450000000000000000", "123.45"},
		{"1", "0.000000000000000001"},
		{"2000000000000000000000000", "2000000.0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatAmountString(c.in), "input %q", c.in)
	}
}

func TestFormatAmountNil(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(nil))
	assert.Equal(t, "0", FormatAmount(big.NewInt(0)))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 0, ParseAmount("").Sign())
	assert.Equal(t, 0, ParseAmount("garbage").Sign())
	assert.Equal(t, "42", ParseAmount(" 42 ").String())
}
