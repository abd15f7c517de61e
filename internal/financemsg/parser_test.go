package financemsg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(decimal.NewFromInt(want)), "amount: want %d, got %s", want, got)
}

func TestParseIncomeCues(t *testing.T) {
	cases := []struct {
		msg    string
		amount int64
		donor  string
	}{
		{"dana 50000 dari Pak RT", 50000, "Pak RT"},
		{"terima 50k dari Ahmad", 50000, "Ahmad"},
		{"dana masuk 50000", 50000, ""},
		{"dapat 100rb dari Ahmad untuk modal", 100000, "Ahmad"},
	}

	for _, c := range cases {
		p := Parse(c.msg)
		if p.Kind != Income {
			t.Fatalf("%q: want income, got %s", c.msg, p.Kind)
		}
		assertAmount(t, c.amount, p.Amount)
		assert.Equal(t, c.donor, p.Counterparty, c.msg)
		assert.Equal(t, c.msg, p.RawText)
	}
}

func TestParseExpenseCues(t *testing.T) {
	cases := []struct {
		msg       string
		amount    int64
		purpose   string
		recipient string
	}{
		{"keluar 50000 untuk transport kepada driver", 50000, "transport", "driver"},
		{"bayar 25000", 25000, "", ""},
		{"beli 25rb untuk makan", 25000, "makan", ""},
		{"buat 10rb keperluan fotokopi ke toko Jaya", 10000, "fotokopi", "toko Jaya"},
	}

	for _, c := range cases {
		p := Parse(c.msg)
		if p.Kind != Expense {
			t.Fatalf("%q: want expense, got %s", c.msg, p.Kind)
		}
		assertAmount(t, c.amount, p.Amount)
		assert.Equal(t, c.purpose, p.Purpose, c.msg)
		assert.Equal(t, c.recipient, p.Counterparty, c.msg)
	}
}

func TestParseSuffixNormalization(t *testing.T) {
	assertAmount(t, 50000, Parse("terima 50k dari Ahmad").Amount)
	assertAmount(t, 1500000, Parse("dapat 1.5jt dari Budi").Amount)
	assertAmount(t, 25000, Parse("bayar 25000").Amount)
	assertAmount(t, 2000000, Parse("masuk 2juta dari panitia").Amount)
	assertAmount(t, 75000, Parse("beli Rp. 75ribu untuk bendera").Amount)
	assertAmount(t, 300000, Parse("TERIMA 300RB DARI Karang Taruna").Amount)
}

func TestNormalizeAmount(t *testing.T) {
	cases := map[string]int64{
		"50k":    50000,
		"50K":    50000,
		"100rb":  100000,
		"7ribu":  7000,
		"2jt":    2000000,
		"1.5jt":  1500000,
		"3juta":  3000000,
		"25000":  25000,
		"0.5k":   500,
		"rp 900": 900,
		"":       0,
		"k":      0,
	}
	for token, want := range cases {
		assertAmount(t, want, NormalizeAmount(token))
	}
}

func TestParseClauses(t *testing.T) {
	p := Parse("masuk 75000 dari dr Bu Sari untuk kegiatan")
	assert.Equal(t, Income, p.Kind)
	assert.Equal(t, "dr Bu Sari", p.Counterparty)
	assert.Equal(t, "kegiatan", p.Purpose)

	p = Parse("terima 50k untuk   hadiah  lomba")
	assert.Equal(t, "", p.Counterparty)
	assert.Equal(t, "hadiah lomba", p.Purpose)

	p = Parse("bayar 100k untuk listrik kepada PLN")
	assert.Equal(t, Expense, p.Kind)
	assert.Equal(t, "listrik", p.Purpose)
	assert.Equal(t, "PLN", p.Counterparty)

	p = Parse("bayar 40rb kepada Pak Budi")
	assert.Equal(t, "", p.Purpose)
	assert.Equal(t, "Pak Budi", p.Counterparty)

	p = Parse("terima 50k dari")
	assert.Equal(t, Income, p.Kind)
	assert.Equal(t, "", p.Counterparty)
}

func TestParseIncomeWinsOverExpense(t *testing.T) {
	// "buat" introduces the purpose here, not an expense.
	p := Parse("dapat 50k buat modal")
	assert.Equal(t, Income, p.Kind)
	assert.Equal(t, "modal", p.Purpose)

	// Both patterns match somewhere; income is checked first.
	p = Parse("beli 20rb terus dapat 5rb")
	assert.Equal(t, Income, p.Kind)
	assertAmount(t, 5000, p.Amount)
}

func TestParseUnrecognized(t *testing.T) {
	for _, msg := range []string{
		"halo apa kabar",
		"",
		"bayar nanti ya",
		"terima 0 dari Ahmad",
		"kedana 5000",
	} {
		p := Parse(msg)
		assert.Equal(t, Unrecognized, p.Kind, msg)
		assert.True(t, p.Amount.IsZero(), msg)
		assert.Equal(t, "", p.Counterparty)
		assert.Equal(t, "", p.Purpose)
	}
}
