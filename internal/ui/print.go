package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

// Color ANSI renk kodları
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
)

// Icons kullanıcı dostu ikonlar
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
	IconInfo    = "ℹ️ "
	IconEdit    = "✂️ "
	IconAudio   = "🎵"
	IconPad     = "🎮"
	IconTime    = "⏱️ "
)

// Out tüm yazdırma yardımcılarının hedefidir; testlerde değiştirilebilir.
var Out io.Writer = os.Stdout

// PrintBanner uygulama başlığını yazdırır
func PrintBanner(version string) {
	title := fmt.Sprintf("PadEdit CLI  v%s", version)
	fmt.Fprintln(Out, Cyan+Bold)
	fmt.Fprintln(Out, "  ╔═══════════════════════════════════════════════╗")
	fmt.Fprintf(Out, "  ║   %-44s║\n", title)
	fmt.Fprintf(Out, "  ║   %-44s║\n", "Gamepad ile ses kırpma ve kazanç")
	fmt.Fprintln(Out, "  ╚═══════════════════════════════════════════════╝"+Reset)
}

// PrintSuccess başarılı mesaj
func PrintSuccess(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconSuccess, Green, msg, Reset)
}

// PrintError hata mesajı
func PrintError(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconError, Red, msg, Reset)
}

// PrintWarning uyarı mesajı
func PrintWarning(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconWarning, Yellow, msg, Reset)
}

// PrintInfo bilgi mesajı
func PrintInfo(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconInfo, Blue, msg, Reset)
}

// PrintEdit bir düzenlemenin kaynak ve çıktı dosyasını yazdırır
func PrintEdit(input, output, summary string) {
	fmt.Fprintf(Out, "%s %s%s%s → %s%s%s  %s%s%s\n",
		IconEdit, Dim, input, Reset, Green, output, Reset, Cyan, summary, Reset)
}

// PrintDuration süre bilgisi
func PrintDuration(d time.Duration) {
	fmt.Fprintf(Out, "%s  Süre: %s%s%s\n", IconTime, Cyan, FormatDuration(d), Reset)
}

// PrintTable basit bir kutu tablo yazdırır
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	border := func(left, mid, right string) string {
		parts := make([]string, len(colWidths))
		for i, w := range colWidths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return "  " + left + strings.Join(parts, mid) + right
	}
	line := func(cells []string, style string) string {
		var sb strings.Builder
		sb.WriteString("  │")
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := colWidths[i] - utf8.RuneCountInString(cell)
			sb.WriteString(" " + style + cell + resetIf(style) + strings.Repeat(" ", pad) + " │")
		}
		return sb.String()
	}

	fmt.Fprintln(Out, border("┌", "┬", "┐"))
	fmt.Fprintln(Out, line(headers, Bold))
	fmt.Fprintln(Out, border("├", "┼", "┤"))
	for _, row := range rows {
		fmt.Fprintln(Out, line(row, ""))
	}
	fmt.Fprintln(Out, border("└", "┴", "┘"))
}

func resetIf(style string) string {
	if style == "" {
		return ""
	}
	return Reset
}

// FormatDuration süreyi okunabilir formata çevirir
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
