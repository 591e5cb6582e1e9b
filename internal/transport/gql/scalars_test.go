package gql

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimalScalar(t *testing.T) {
	assert.Equal(t, "1225.50", Decimal.Serialize(decimal.RequireFromString("1225.50")))
	assert.Equal(t, "1200", Decimal.Serialize(decimal.NewFromInt(1200)))
	assert.Nil(t, Decimal.Serialize("1.00"))

	parsed, ok := Decimal.ParseValue("25.50").(decimal.Decimal)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("25.5").Equal(parsed))
	assert.Nil(t, Decimal.ParseValue("abc"))

	literal, ok := Decimal.ParseLiteral(&ast.FloatValue{Kind: "FloatValue", Value: "0.10"}).(decimal.Decimal)
	assert.True(t, ok)
	assert.Equal(t, "0.10", formatDecimal(literal))
}
