package recorder

import (
	"strings"

	"github.com/NgigiN/lomba17/internal/financemsg"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const confirmationMark = "✅ "

var (
	rupiah  = message.NewPrinter(language.Indonesian)
	billion = decimal.NewFromInt(1_000_000_000)
)

// FormatRupiah renders an amount the way id-ID does: "Rp 1.500.000",
// "Rp 2.500,5". Amounts are rounded to two decimals and may exceed int64.
func FormatRupiah(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign, amount = "-", amount.Neg()
	}
	amount = amount.Round(2)
	whole := amount.Truncate(0)

	text := "Rp " + sign + groupDigits(whole)
	if frac := amount.Sub(whole); !frac.IsZero() {
		// "0,5" -> ",5"
		text += rupiah.Sprintf("%v", number.Decimal(frac.InexactFloat64(), number.MaxFractionDigits(2)))[1:]
	}
	return text
}

// groupDigits formats a non-negative integer with "." thousands separators,
// nine digits at a time so values past int64 keep their grouping.
func groupDigits(n decimal.Decimal) string {
	if n.LessThan(billion) {
		return rupiah.Sprintf("%d", n.IntPart())
	}
	q, r := n.QuoRem(billion, 0)
	// 1_000_000_000 + r prints as "1.ddd.ddd.ddd"; dropping the leading 1
	// leaves the zero padded chunk with its separators.
	return groupDigits(q) + rupiah.Sprintf("%d", billion.Add(r).IntPart())[1:]
}

func kindLabel(k financemsg.Kind) string {
	if k == financemsg.Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

// Description is the human-readable text stored on the finance record.
func Description(p financemsg.ParsedTransaction, channelLabel string) string {
	var b strings.Builder
	switch {
	case p.Kind == financemsg.Income && p.Counterparty != "":
		b.WriteString("Dana masuk dari " + p.Counterparty)
		if p.Purpose != "" {
			b.WriteString(" untuk " + p.Purpose)
		}
	case p.Kind == financemsg.Expense && (p.Purpose != "" || p.Counterparty != ""):
		b.WriteString("Pengeluaran")
		if p.Purpose != "" {
			b.WriteString(" untuk " + p.Purpose)
		}
		if p.Counterparty != "" {
			b.WriteString(" kepada " + p.Counterparty)
		}
	default:
		b.WriteString(kindLabel(p.Kind) + " dari " + channelLabel)
	}
	return b.String()
}

// Confirmation is the reply sent back to the chat after a successful record.
func Confirmation(p financemsg.ParsedTransaction) string {
	var b strings.Builder
	b.WriteString(confirmationMark + kindLabel(p.Kind) + " sebesar " + FormatRupiah(p.Amount) + " berhasil dicatat!")
	if p.Counterparty != "" {
		if p.Kind == financemsg.Income {
			b.WriteString("\n👤 Dari: " + p.Counterparty)
		} else {
			b.WriteString("\n👤 Kepada: " + p.Counterparty)
		}
	}
	if p.Purpose != "" {
		b.WriteString("\n📝 Keperluan: " + p.Purpose)
	}
	return b.String()
}

func notificationTitle(k financemsg.Kind) string {
	return kindLabel(k) + " Baru"
}

func notificationMessage(confirmation string) string {
	return strings.TrimPrefix(confirmation, confirmationMark)
}
