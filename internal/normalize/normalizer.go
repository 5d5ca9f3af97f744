// Package normalize maps free-text bookmaker outcome labels onto the
// canonical outcomes of a match.
//
// Resolution is an ordered pipeline: canonicalize (casefold, strip diacritics
// and punctuation) → strip organizational affixes (FC, AFC, ...) → exact match
// against the match's participants or the draw marker → curated alias table →
// token-set fuzzy match scoped to this match's two participants. Labels that
// fall through every stage are Unmatched and excluded from aggregation,
// never defaulted to a placeholder probability.
package normalize

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/XavierBriggs/Delphi/pkg/models"
)

// DefaultFuzzyThreshold is the minimum token-set similarity (0-100) accepted
// by the fuzzy stage when no threshold is configured.
const DefaultFuzzyThreshold = 85

//go:embed aliases.yaml
var aliasesYAML []byte

// drawMarkers are the literal labels bookmakers use for the draw outcome.
var drawMarkers = map[string]bool{
	"draw": true,
	"tie":  true,
	"x":    true,
}

// affixTokens are organizational prefixes/suffixes stripped before matching,
// so "AFC Bournemouth" and "Bournemouth" compare equal. Only leading and
// trailing tokens are stripped; interior tokens are part of the name.
var affixTokens = map[string]bool{
	"fc": true, "cf": true, "afc": true, "cfc": true, "ac": true,
	"as": true, "ss": true, "ssc": true, "sc": true, "rc": true,
	"rcd": true, "cd": true, "ud": true, "fk": true, "nk": true,
	"bk": true, "sk": true, "if": true, "club": true,
}

// MatchContext scopes normalization to one match. Fuzzy matching only ever
// compares against these two participants, never a global team universe.
type MatchContext struct {
	HomeTeam string
	AwayTeam string
}

// Normalizer resolves raw outcome labels using a curated alias table and a
// configurable fuzzy threshold. Safe for concurrent use; the alias table is
// immutable after construction.
type Normalizer struct {
	threshold int
	aliases   map[string]string // canonicalized alias -> canonicalized club name
}

// New builds a Normalizer from the embedded alias seed. threshold is the
// minimum token-set similarity (0-100) for the fuzzy stage; values outside
// (0, 100] fall back to DefaultFuzzyThreshold.
func New(threshold int) (*Normalizer, error) {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultFuzzyThreshold
	}

	var seed map[string][]string
	if err := yaml.Unmarshal(aliasesYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse alias seed: %w", err)
	}

	aliases := make(map[string]string, len(seed)*2)
	for canonical, raws := range seed {
		canonicalKey := stripAffixes(Canonicalize(canonical))
		for _, raw := range raws {
			aliases[stripAffixes(Canonicalize(raw))] = canonicalKey
		}
	}

	return &Normalizer{threshold: threshold, aliases: aliases}, nil
}

// Normalize resolves a raw bookmaker label to a canonical outcome for the
// given match. ok is false when the label falls through every stage.
func (n *Normalizer) Normalize(rawLabel string, match MatchContext) (models.OutcomeKey, bool) {
	raw := Canonicalize(rawLabel)
	if raw == "" {
		return "", false
	}

	if drawMarkers[raw] {
		return models.OutcomeDraw, true
	}

	label := stripAffixes(raw)
	home := stripAffixes(Canonicalize(match.HomeTeam))
	away := stripAffixes(Canonicalize(match.AwayTeam))
	if label == "" || home == "" || away == "" {
		return "", false
	}

	// Exact match against the participants.
	if label == home {
		return models.OutcomeHome, true
	}
	if label == away {
		return models.OutcomeAway, true
	}

	// Alias table: resolve both sides to their canonical club names so
	// "Man Utd" meets "Manchester United" on common ground.
	rLabel, rHome, rAway := n.resolveAlias(label), n.resolveAlias(home), n.resolveAlias(away)
	if rLabel == rHome && rLabel != rAway {
		return models.OutcomeHome, true
	}
	if rLabel == rAway && rLabel != rHome {
		return models.OutcomeAway, true
	}

	// Fuzzy token-set similarity against this match's participants only.
	homeScore := TokenSetRatio(rLabel, rHome)
	awayScore := TokenSetRatio(rLabel, rAway)
	if homeScore >= n.threshold && homeScore > awayScore {
		return models.OutcomeHome, true
	}
	if awayScore >= n.threshold && awayScore > homeScore {
		return models.OutcomeAway, true
	}

	return "", false
}

// resolveAlias maps a canonicalized name through the alias table, returning
// the input unchanged when no alias is known.
func (n *Normalizer) resolveAlias(name string) string {
	if canonical, ok := n.aliases[name]; ok {
		return canonical
	}
	return name
}

// Canonicalize folds case, strips diacritics and punctuation, and collapses
// whitespace, producing the comparison form used by every pipeline stage.
func Canonicalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	// NFD + drop combining marks removes diacritics: "münchen" -> "munchen".
	decomposed := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(decomposed, value); err == nil {
		value = folded
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '&':
			b.WriteString(" and ")
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// stripAffixes removes organizational tokens from the edges of a
// canonicalized name, always leaving at least one token.
func stripAffixes(name string) string {
	tokens := strings.Fields(name)
	for len(tokens) > 1 && affixTokens[tokens[0]] {
		tokens = tokens[1:]
	}
	for len(tokens) > 1 && affixTokens[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// TokenSetRatio computes a token-set similarity between two canonicalized
// strings as an integer 0-100 (Jaccard index over word sets).
func TokenSetRatio(a, b string) int {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	inter := 0
	for tok := range sa {
		if sb[tok] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return 100 * inter / union
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
