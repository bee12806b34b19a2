package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestCheckUnitRates_ForceReplacesAbsurdRate(t *testing.T) {
	est := cleanEstimate()
	steel := &est.Trades[1].LineItems[0]
	steel.Quantity = 10
	steel.UnitRate = 9000 // three times the 3000 medium-steel rate
	steel.LineTotal = 90000
	est.Trades[1].Subtotal = 90000

	issues := checkUnitRates(&checkContext{est: est})

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityCritical, issues[0].Severity)
	assert.True(t, issues[0].AutoFixed)

	assert.Equal(t, 3000.0, steel.UnitRate)
	assert.Equal(t, model.RateSourceDBFix, steel.RateSource)
	assert.Equal(t, 30000.0, steel.LineTotal)
	assert.Equal(t, 30000.0, est.Trades[1].Subtotal)
}

func TestCheckUnitRates_BlendsMildOutlier(t *testing.T) {
	est := cleanEstimate()
	hvac := &est.Trades[3].LineItems[0]
	hvac.UnitRate = 40 // band is [18, 32], reference 24; under 2x so blended
	hvac.LineTotal = 400000
	est.Trades[3].Subtotal = 400000

	issues := checkUnitRates(&checkContext{est: est})

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityWarning, issues[0].Severity)
	assert.Equal(t, 32.0, hvac.UnitRate) // (40 + 24) / 2
	assert.Equal(t, model.RateSourceDB, hvac.RateSource)
}

func TestCheckUnitRates_CleanRatesUntouched(t *testing.T) {
	est := cleanEstimate()
	issues := checkUnitRates(&checkContext{est: est})
	assert.Empty(t, issues)
}

func TestCheckUnitRates_SkipsFallbackEstimates(t *testing.T) {
	est := cleanEstimate()
	est.Summary.Provenance = model.ProvenanceFallback
	est.Trades[3].LineItems[0].UnitRate = 500

	issues := checkUnitRates(&checkContext{est: est})

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityInfo, issues[0].Severity)
	assert.Equal(t, 500.0, est.Trades[3].LineItems[0].UnitRate)
}

func TestRateAddressFor(t *testing.T) {
	addr, ok := rateAddressFor("Structural steel: W21x68 beams")
	require.True(t, ok)
	assert.Equal(t, "structural_steel", addr.category)

	addr, ok = rateAddressFor("Connection and miscellaneous steel allowance")
	require.True(t, ok)
	assert.Equal(t, []string{"misc"}, addr.subtypes)

	_, ok = rateAddressFor("Temporary site fencing")
	assert.False(t, ok)
}
