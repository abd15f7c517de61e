package recorder

import (
	"fmt"

	"github.com/NgigiN/lomba17/internal/storage"
)

// SummaryMessage renders finance totals for the chat summary commands.
func SummaryMessage(s storage.FinanceSummary) string {
	if s.Count == 0 {
		return "Belum ada transaksi yang tercatat."
	}
	return fmt.Sprintf("📊 Ringkasan Keuangan\n\n📈 Pemasukan: %s\n📉 Pengeluaran: %s\n\n💰 Saldo: %s (%d transaksi)",
		FormatRupiah(s.Income), FormatRupiah(s.Expense), FormatRupiah(s.Balance), s.Count)
}
