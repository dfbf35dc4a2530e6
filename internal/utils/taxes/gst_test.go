package taxes

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeLine_ExclusiveIntraState(t *testing.T) {
	// 2 units @ 500, 18% GST on top, intra-state: 9% CGST + 9% SGST.
	b, err := ComputeLine(dec("2"), dec("500"), dec("18"), false, false)
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(b.TaxableValue), "taxable %s", b.TaxableValue)
	assert.True(t, dec("180").Equal(b.TotalTax), "tax %s", b.TotalTax)
	assert.True(t, dec("90").Equal(b.CGST))
	assert.True(t, dec("90").Equal(b.SGST))
	assert.True(t, b.IGST.IsZero())
	assert.True(t, dec("1180").Equal(b.LineTotal))
}

func TestComputeLine_InclusiveInterState(t *testing.T) {
	// 1 unit @ 1180 tax-inclusive, 18%: taxable 1000, IGST 180.
	b, err := ComputeLine(dec("1"), dec("1180"), dec("18"), true, true)
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(b.TaxableValue), "taxable %s", b.TaxableValue)
	assert.True(t, dec("180").Equal(b.IGST), "igst %s", b.IGST)
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, dec("1180").Equal(b.LineTotal))
}

func TestComputeLine_OddPaisaSplit(t *testing.T) {
	// 1 @ 99, 5% = 4.95 tax; halves must still sum to the total tax.
	b, err := ComputeLine(dec("1"), dec("99"), dec("5"), false, false)
	require.NoError(t, err)

	assert.True(t, dec("4.95").Equal(b.TotalTax))
	assert.True(t, b.CGST.Add(b.SGST).Equal(b.TotalTax))
}

func TestComputeLine_ZeroRate(t *testing.T) {
	b, err := ComputeLine(dec("3"), dec("40"), dec("0"), false, false)
	require.NoError(t, err)

	assert.True(t, b.TotalTax.IsZero())
	assert.True(t, dec("120").Equal(b.LineTotal))
}

func TestComputeLine_Invalid(t *testing.T) {
	_, err := ComputeLine(dec("-1"), dec("10"), dec("18"), false, false)
	assert.Error(t, err)

	_, err = ComputeLine(dec("1"), dec("10"), dec("120"), false, false)
	assert.Error(t, err)
}

func TestInterState(t *testing.T) {
	assert.False(t, InterState("27", "27"))
	assert.True(t, InterState("27", "29"))
	assert.False(t, InterState("", "29"), "unknown codes default to intra-state")
}
