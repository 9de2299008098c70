// Package receipt renders PLN bill receipts for 58mm thermal printers.
package receipt

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Width is the printable column count of a 58mm roll.
const Width = 32

var (
	rule   = strings.Repeat("=", Width)
	dashed = strings.Repeat("-", Width)

	rupiah = message.NewPrinter(language.Indonesian)
)

// FormatRupiah renders n as "Rp 1.234.567".
func FormatRupiah(n int64) string {
	return "Rp " + rupiah.Sprintf("%d", n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// Text builds the plain receipt. printedAt is rendered in loc.
func Text(r *model.BillCheckResult, printedAt time.Time, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(rule + "\n")
	b.WriteString("       STRUK TAGIHAN PLN\n")
	b.WriteString(rule + "\n")
	b.WriteString(model.FormatDisplayDate(printedAt, loc) + "\n")
	b.WriteString(dashed + "\n")
	fmt.Fprintf(&b, "No Pelanggan : %s\n", orDash(r.CustomerNumber))
	fmt.Fprintf(&b, "Nama         : %s\n", orDash(r.CustomerName))
	fmt.Fprintf(&b, "Tarif/Daya   : %s\n", orDash(r.TariffPower))
	fmt.Fprintf(&b, "Stand Meter  : %s\n", orDash(r.StandMeter))
	b.WriteString(dashed + "\n")

	if details := r.Details(); len(details) > 0 {
		for _, d := range details {
			b.WriteString(padRight(d.Period, 16) + " " + padLeft(FormatRupiah(d.Amount), 15) + "\n")
		}
		b.WriteString(dashed + "\n")
	}

	fmt.Fprintf(&b, "Tagihan      : %s\n", FormatRupiah(r.BillAmount))
	fmt.Fprintf(&b, "Admin Bank   : %s\n", FormatRupiah(r.AdminFee))
	b.WriteString(dashed + "\n")
	fmt.Fprintf(&b, "TOTAL BAYAR  : %s\n", FormatRupiah(r.TotalPayment))
	b.WriteString(rule + "\n")
	b.WriteString("   Terima kasih atas pembayaran\n")
	b.WriteString("      Simpan struk sebagai bukti\n")
	b.WriteString(rule + "\n")

	return b.String()
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Struk PLN</title>
<style>
body{margin:0;padding:5mm;font-family:monospace;font-size:10pt;}
pre{white-space:pre-wrap;margin:0;}
@media print{@page{margin:0;size:58mm auto;}}
</style>
</head>
<body>
<pre>%s</pre>
<script>
window.onload = function() {
    window.print();
};
</script>
</body>
</html>`

// HTML wraps a text receipt in a page that opens the print dialog on load.
func HTML(text string) string {
	return fmt.Sprintf(pageTemplate, html.EscapeString(text))
}
