package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderValidates(t *testing.T) {
	t.Parallel()

	o, err := NewOrder("RELIANCE", "NSE", Buy, 10, Limit, 2500, Equity)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), o.Quantity)

	cases := []struct {
		name string
		o    Order
	}{
		{"zero quantity", Order{Symbol: "X", Side: Buy, Quantity: 0, Kind: Market, Class: Equity}},
		{"negative quantity", Order{Symbol: "X", Side: Buy, Quantity: -5, Kind: Market, Class: Equity}},
		{"negative price", Order{Symbol: "X", Side: Buy, Quantity: 1, Kind: Limit, Price: -1, Class: Equity}},
		{"limit without price", Order{Symbol: "X", Side: Buy, Quantity: 1, Kind: Limit, Class: Equity}},
		{"missing symbol", Order{Side: Buy, Quantity: 1, Kind: Market, Class: Equity}},
		{"bad side", Order{Symbol: "X", Side: "HOLD", Quantity: 1, Kind: Market, Class: Equity}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.o.Validate())
		})
	}
}

func TestOrderValue(t *testing.T) {
	t.Parallel()

	limit := Order{Symbol: "X", Side: Buy, Quantity: 10, Kind: Limit, Price: 250, Class: Equity}
	assert.Equal(t, 2500.0, limit.Value(1000))

	// MARKET orders have no price; the estimate stands in.
	mkt := Order{Symbol: "X", Side: Buy, Quantity: 10, Kind: Market, Class: Equity}
	assert.Equal(t, 10000.0, mkt.Value(1000))
	assert.Equal(t, 1000.0, mkt.EffectivePrice(1000))
}

func TestOrderClassSuffix(t *testing.T) {
	t.Parallel()

	assert.True(t, Order{Symbol: "NIFTY24AUGFUT"}.HasClassSuffix())
	assert.True(t, Order{Symbol: "BANKNIFTY24AUG48000CE"}.HasClassSuffix())
	assert.True(t, Order{Symbol: "BANKNIFTY24AUG48000PE"}.HasClassSuffix())
	assert.False(t, Order{Symbol: "RELIANCE"}.HasClassSuffix())
}

func TestInstrumentClassDerivative(t *testing.T) {
	t.Parallel()

	assert.False(t, Equity.Derivative())
	assert.True(t, Future.Derivative())
	assert.True(t, CallOption.Derivative())
	assert.True(t, PutOption.Derivative())
}
