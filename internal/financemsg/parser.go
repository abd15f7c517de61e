// Package financemsg reads colloquial Indonesian chat messages such as
// "terima 50k dari Ahmad untuk modal" and turns them into transactions.
package financemsg

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	Unrecognized Kind = iota
	Income
	Expense
)

func (k Kind) String() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unrecognized"
	}
}

// ParsedTransaction is the result of Parse. Counterparty is the donor for
// income and the recipient for expense. Optional fields are empty, never
// missing.
type ParsedTransaction struct {
	Kind         Kind
	Amount       decimal.Decimal
	Counterparty string
	Purpose      string
	RawText      string
}

type field int

const (
	counterpartyField field = iota
	purposeField
)

// clause is an optional trailing group such as "dari Ahmad".
type clause struct {
	field       field
	introducers []string
}

func (c clause) introducedBy(word string) bool {
	word = strings.ToLower(word)
	for _, intro := range c.introducers {
		if word == intro {
			return true
		}
	}
	return false
}

type pattern struct {
	kind    Kind
	re      *regexp.Regexp
	clauses []clause
}

func newPattern(kind Kind, cues []string, clauses ...clause) pattern {
	quoted := make([]string, len(cues))
	for i, cue := range cues {
		quoted[i] = regexp.QuoteMeta(cue)
	}
	expr := `(?i)\b(?:` + strings.Join(quoted, "|") + `)\s+` + amountToken
	return pattern{kind: kind, re: regexp.MustCompile(expr), clauses: clauses}
}

var (
	donorClause     = clause{counterpartyField, []string{"dari", "dr"}}
	purposeClause   = clause{purposeField, []string{"untuk", "buat", "keperluan"}}
	recipientClause = clause{counterpartyField, []string{"kepada", "ke"}}
)

// patterns are tried in order; the first that matches decides the kind, even
// when a later one would match too ("buat" is both an expense cue and a
// purpose introducer).
var patterns = []pattern{
	newPattern(Income, []string{"dana", "terima", "masuk", "dapat"}, donorClause, purposeClause),
	newPattern(Expense, []string{"keluar", "bayar", "beli", "buat"}, purposeClause, recipientClause),
}

// Parse classifies text as income, expense or unrecognized. It never fails:
// text that matches no pattern, or whose amount is zero, is Unrecognized.
func Parse(text string) ParsedTransaction {
	result := ParsedTransaction{Kind: Unrecognized, Amount: decimal.Zero, RawText: text}

	for _, p := range patterns {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		amount := NormalizeAmount(text[loc[2]:loc[3]])
		if !amount.IsPositive() {
			return result
		}

		fields := extractClauses(strings.Fields(text[loc[1]:]), p.clauses)
		result.Kind = p.kind
		result.Amount = amount
		result.Counterparty = fields[counterpartyField]
		result.Purpose = fields[purposeField]
		return result
	}
	return result
}

// extractClauses walks the words that follow the amount. Each clause must
// start right where the previous one ended, and runs until a word that
// introduces one of the clauses after it.
func extractClauses(words []string, clauses []clause) map[field]string {
	out := make(map[field]string, len(clauses))
	pos := 0
	for i, c := range clauses {
		if pos >= len(words) || !c.introducedBy(words[pos]) {
			continue
		}
		start := pos + 1
		end := start
		for end < len(words) && !introducesAny(clauses[i+1:], words[end]) {
			end++
		}
		out[c.field] = strings.TrimSpace(strings.Join(words[start:end], " "))
		pos = end
	}
	return out
}

func introducesAny(clauses []clause, word string) bool {
	for _, c := range clauses {
		if c.introducedBy(word) {
			return true
		}
	}
	return false
}
