package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(0)
	require.NoError(t, err)
	return n
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United", "manchester united"},
		{"  ATLÉTICO Madrid ", "atletico madrid"},
		{"Bayern München", "bayern munchen"},
		{"Brighton & Hove Albion", "brighton and hove albion"},
		{"St. Étienne", "st etienne"},
		{"A.F.C. Bournemouth", "a f c bournemouth"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonicalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeExactAndAffix(t *testing.T) {
	n := newTestNormalizer(t)
	ctx := MatchContext{HomeTeam: "Arsenal FC", AwayTeam: "Chelsea"}

	tests := []struct {
		label string
		want  models.OutcomeKey
	}{
		{"Arsenal", models.OutcomeHome},
		{"Arsenal FC", models.OutcomeHome},
		{"FC Arsenal", models.OutcomeHome},
		{"Chelsea FC", models.OutcomeAway},
		{"Draw", models.OutcomeDraw},
		{"TIE", models.OutcomeDraw},
		{"X", models.OutcomeDraw},
	}

	for _, tt := range tests {
		got, ok := n.Normalize(tt.label, ctx)
		require.True(t, ok, "label %q should resolve", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestNormalizeAliasTable(t *testing.T) {
	n := newTestNormalizer(t)
	ctx := MatchContext{HomeTeam: "Manchester United", AwayTeam: "Liverpool"}

	// "Man Utd" and "Manchester United" must land on the same canonical
	// outcome within one match context.
	for _, label := range []string{"Man Utd", "Manchester United", "Man United", "Manchester Utd"} {
		got, ok := n.Normalize(label, ctx)
		require.True(t, ok, "label %q should resolve", label)
		assert.Equal(t, models.OutcomeHome, got, "label %q", label)
	}

	got, ok := n.Normalize("Liverpool FC", ctx)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeAway, got)
}

func TestNormalizeContextGated(t *testing.T) {
	n := newTestNormalizer(t)

	// "Inter" in a Serie A match resolves to Internazionale.
	serieA := MatchContext{HomeTeam: "Internazionale", AwayTeam: "Juventus"}
	got, ok := n.Normalize("Inter", serieA)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, got)

	// The same label in an unrelated MLS match must not attach to Inter Miami.
	mls := MatchContext{HomeTeam: "Inter Miami CF", AwayTeam: "Orlando City SC"}
	_, ok = n.Normalize("Inter", mls)
	assert.False(t, ok)

	// But the full name still resolves in its own context.
	got, ok = n.Normalize("Inter Miami", mls)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, got)
}

func TestNormalizeDiacritics(t *testing.T) {
	n := newTestNormalizer(t)
	ctx := MatchContext{HomeTeam: "Atlético Madrid", AwayTeam: "Bayern München"}

	got, ok := n.Normalize("Atletico Madrid", ctx)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, got)

	got, ok = n.Normalize("FC Bayern Munchen", ctx)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeAway, got)

	got, ok = n.Normalize("Atleti", ctx)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, got)
}

func TestNormalizeUnmatched(t *testing.T) {
	n := newTestNormalizer(t)
	ctx := MatchContext{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}

	for _, label := range []string{"Everton", "Over 2.5", ""} {
		_, ok := n.Normalize(label, ctx)
		assert.False(t, ok, "label %q must stay unmatched", label)
	}
}

func TestNormalizeFuzzyThreshold(t *testing.T) {
	// A permissive threshold lets partial token overlap through; the default
	// threshold keeps it unmatched.
	loose, err := New(50)
	require.NoError(t, err)
	strict := newTestNormalizer(t)

	ctx := MatchContext{HomeTeam: "Wolverhampton Wanderers FC", AwayTeam: "Fulham"}

	got, ok := loose.Normalize("Wolverhampton", ctx)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeHome, got)

	_, ok = strict.Normalize("Wanderers United Select XI", ctx)
	assert.False(t, ok)
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("manchester united", "manchester united"))
	assert.Equal(t, 50, TokenSetRatio("wolverhampton", "wolverhampton wanderers"))
	assert.Equal(t, 0, TokenSetRatio("internazionale", "inter miami"))
	assert.Equal(t, 0, TokenSetRatio("", "arsenal"))
}
