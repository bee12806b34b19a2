package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
)

func TestCheckCompleteness_AllPresent(t *testing.T) {
	issues := checkCompleteness(&checkContext{est: cleanEstimate()})
	assert.Empty(t, issues)
}

func TestCheckCompleteness_MissingRoofing(t *testing.T) {
	est := cleanEstimate()
	est.Trades = append(est.Trades[:2], est.Trades[3:]...) // drop Roofing

	issues := checkCompleteness(&checkContext{est: est})

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityCritical, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Roofing")
}

func TestCheckCompleteness_MissingSiteworkIsWarning(t *testing.T) {
	est := cleanEstimate()
	est.Trades = est.Trades[:4] // drop Sitework

	issues := checkCompleteness(&checkContext{est: est})

	require.Len(t, issues, 1)
	assert.Equal(t, model.SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Sitework")
}

func TestCheckCompleteness_SynonymSatisfies(t *testing.T) {
	est := cleanEstimate()
	est.Summary.ProjectType = model.ProjectTypeCommercial
	// Rename MEP; the synonym table should still recognize it.
	est.Trades[3].TradeName = "Mechanical & Electrical"
	// Commercial also wants Finishes.
	est.Trades = append(est.Trades, model.Trade{TradeName: "Interior Finishes", Subtotal: 50000})

	issues := checkCompleteness(&checkContext{est: est})
	assert.Empty(t, issues)
}

func TestCheckCompleteness_ZeroSubtotalDoesNotCount(t *testing.T) {
	est := cleanEstimate()
	est.Trades[2].Subtotal = 0 // Roofing priced at nothing

	issues := checkCompleteness(&checkContext{est: est})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "Roofing")
}
