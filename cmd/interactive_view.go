package cmd

import (
	"fmt"
	"math"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/padedit-cli/internal/edit"
	"github.com/mlihgenel/padedit-cli/internal/editor"
)

// ========================================
// Renk Paleti ve Stiller
// ========================================

var (
	primaryColor   = lipgloss.Color("#7C3AED") // Mor
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#10B981") // Yeşil
	warningColor   = lipgloss.Color("#F59E0B") // Sarı
	dangerColor    = lipgloss.Color("#EF4444") // Kırmızı
	textColor      = lipgloss.Color("#E2E8F0") // Açık gri
	dimTextColor   = lipgloss.Color("#64748B") // Koyu gri

	gradientColors = []lipgloss.Color{
		"#818CF8", "#A78BFA", "#C084FC", "#E879F9", "#F472B6",
	}

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(secondaryColor).
				PaddingLeft(2)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(4)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 3).
			MarginTop(1)

	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	waveLevels = []rune(" ▁▂▃▄▅▆▇█")
)

const waveformHeight = 6

// ========================================
// Görünüm
// ========================================

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	now := m.now()

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.machine.Step() {
	case editor.StepFileSelection:
		b.WriteString(m.selectionView(now))
	case editor.StepEditing:
		b.WriteString(m.editingView(now))
	}

	if kind, msg := m.machine.Modal(); kind != editor.ModalNone {
		b.WriteString("\n")
		b.WriteString(modalView(kind, msg, m.width))
	}

	if status := m.machine.Status(); status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle(status).Render("  " + status))
	}

	b.WriteString("\n\n")
	b.WriteString("  " + m.help.ShortHelpView(m.helpBindings()))
	return b.String()
}

func (m editorModel) headerView() string {
	title := gradientText("PadEdit", gradientColors)
	mode := menuTitleStyle.MarginBottom(0).Render(strings.ToUpper(string(m.machine.Mode())))

	var pad string
	switch {
	case !m.padEnabled:
		pad = dimStyle.Render("⌨  yalnızca klavye")
	case m.lastPad.Connected && m.lastPad.Settling:
		pad = warnStyle.Render("🎮 bekleniyor")
	case m.lastPad.Connected:
		pad = successStyle.Render("🎮 bağlı")
	default:
		pad = errorStyle.Render("🎮 bağlı değil")
	}
	if now := m.now(); m.machine.Suppressed(now) {
		wait := "  (girdi bekletiliyor)"
		if d := m.machine.CooldownRemaining(now); d > 0 {
			wait = fmt.Sprintf("  (girdi bekletiliyor %.1fs)", d.Seconds())
		}
		pad += dimStyle.Render(wait)
	}
	return fmt.Sprintf("  %s  %s  %s", title, mode, pad)
}

func (m editorModel) selectionView(now time.Time) string {
	var b strings.Builder
	files := m.machine.Files()

	b.WriteString(menuTitleStyle.Render(" Dosya Seç "))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  📁 " + shortenPath(m.dir)))
	b.WriteString("\n\n")

	if m.firstRun {
		b.WriteString(welcomeView(m.width))
		b.WriteString("\n\n")
	}

	if len(files) == 0 {
		b.WriteString(dimStyle.Render("  Bu klasörde ses dosyası yok"))
		return b.String()
	}

	nameWidth := max(16, min(48, m.width-30))
	from, to := visibleRange(len(files), m.machine.Cursor(), m.listHeight())
	if from > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    ↑ %d dosya daha", from)))
		b.WriteString("\n")
	}
	for i := from; i < to; i++ {
		f := files[i]
		name := padRunes(truncateRunes(f.Name, nameWidth), nameWidth)
		meta := dimStyle.Render(fmt.Sprintf("%9s  %s", f.SizeText(), f.Age(now)))
		if i == m.machine.Cursor() {
			b.WriteString(selectedItemStyle.Render("▸ "+name))
		} else {
			b.WriteString(normalItemStyle.Render(name))
		}
		b.WriteString("  " + meta + "\n")
	}
	if to < len(files) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    ↓ %d dosya daha", len(files)-to)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m editorModel) listHeight() int {
	// başlık, yol, durum ve yardım satırları
	return max(3, m.height-12)
}

// visibleRange imleci görünür tutan [from,to) aralığını döner.
func visibleRange(total, cursor, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	from := cursor - height/2
	from = max(0, min(from, total-height))
	return from, from + height
}

func (m editorModel) editingView(now time.Time) string {
	var b strings.Builder
	name := filepath.Base(m.machine.Selected())
	b.WriteString(menuTitleStyle.Render(" Düzenle "))
	b.WriteString("\n")
	b.WriteString("  " + pathStyle.Render(name))
	b.WriteString("\n\n")

	frame := spinnerFrames[m.spinnerTick%len(spinnerFrames)]
	switch {
	case m.machine.Analyzing():
		b.WriteString(infoStyle.Render("  " + frame + " Analiz ediliyor..."))
		return b.String()
	case m.machine.AnalysisError() != "":
		b.WriteString(errorStyle.Render("  Analiz başarısız: " + m.machine.AnalysisError()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  B / esc ile listeye dönün"))
		return b.String()
	}

	session := m.machine.Session()
	if session == nil {
		return b.String()
	}

	width := max(20, min(96, m.width-6))
	analysis := m.machine.Analysis()

	switch s := session.(type) {
	case *edit.TrimSession:
		cols := waveformColumns(analysis.Samples, width)
		startCol, endCol := markerPositions(s.Window.Start(), s.Window.End(), s.Window.Total(), width)
		b.WriteString(renderWaveform(cols, nil, waveformHeight, func(i int) bool { return i >= startCol && i <= endCol }))
		b.WriteString("\n")
		b.WriteString("  " + trimTimelineBar(s.Window, width))
		b.WriteString("\n\n")
		b.WriteString(trimDetails(s))
	case *edit.GainSession:
		scaled, clipped := s.Gain.Scaled(analysis.Samples)
		cols := waveformColumns(scaled, width)
		clipCols := clipColumns(clipped, width)
		b.WriteString(renderWaveform(cols, clipCols, waveformHeight, func(int) bool { return true }))
		b.WriteString("\n")
		b.WriteString("  " + gainMeter(s.Gain, width))
		b.WriteString("\n\n")
		b.WriteString(gainDetails(s))
	}

	b.WriteString("\n")
	switch {
	case m.machine.Busy():
		b.WriteString(infoStyle.Render("  " + frame + " Uygulanıyor... (B: iptal)"))
	case m.machine.Previewing():
		remaining := m.machine.PreviewRemaining(now).Round(100 * time.Millisecond)
		b.WriteString(successStyle.Render(fmt.Sprintf("  ▶ Önizleme (%s)", remaining)))
	default:
		b.WriteString(dimStyle.Render("  ■ Durduruldu"))
	}
	return b.String()
}

var welcomeLines = []string{
	"PadEdit'e hoş geldiniz!",
	"",
	"D-pad ile bir dosya seçip A ile açın. Düzenleme ekranında:",
	"  ←/→ değeri kaydırır, ↑/↓ trim'de kenar değiştirir",
	"  LB/RB pencereyi daraltır/genişletir, LT/RT adımı değiştirir",
	"  X önizler, Y sıfırlar, Start uygular, B geri döner",
	"",
	"Gamepad yoksa klavye kısayolları aşağıda listelenir.",
}

func welcomeView(width int) string {
	style := resultBoxStyle.Width(max(30, min(72, width-8))).MarginTop(0)
	lines := make([]string, len(welcomeLines))
	for i, l := range welcomeLines {
		if i == 0 {
			lines[i] = gradientText(l, gradientColors)
			continue
		}
		lines[i] = l
	}
	return style.Render(strings.Join(lines, "\n"))
}

func trimDetails(s *edit.TrimSession) string {
	w := s.Window
	startLabel, endLabel := "Başlangıç", "Bitiş"
	startStyle, endStyle := normalItemStyle, normalItemStyle
	if s.Focus() == edit.FocusStart {
		startStyle = selectedItemStyle
		startLabel = "▸ " + startLabel
	} else {
		endStyle = selectedItemStyle
		endLabel = "▸ " + endLabel
	}
	lines := []string{
		startStyle.Render(fmt.Sprintf("%-12s %s", startLabel, edit.FormatSeconds(w.Start()))),
		endStyle.Render(fmt.Sprintf("%-12s %s", endLabel, edit.FormatSeconds(w.End()))),
		normalItemStyle.Render(fmt.Sprintf("%-12s %s / %s", "Süre", edit.FormatSeconds(w.Duration()), edit.FormatSeconds(w.Total()))),
		dimStyle.Render(fmt.Sprintf("    Adım: %gs", s.Step())),
	}
	return strings.Join(lines, "\n")
}

func gainDetails(s *edit.GainSession) string {
	g := s.Gain
	lines := []string{
		selectedItemStyle.Render(fmt.Sprintf("%-12s %+.1f dB  (x%.2f)", "▸ Kazanç", g.DB(), g.LinearMultiplier())),
		normalItemStyle.Render(fmt.Sprintf("%-12s %s", "Tepe", formatDB(g.PeakDB()))),
		normalItemStyle.Render(fmt.Sprintf("%-12s %s", "Boşluk", formatDB(g.HeadroomDB()))),
	}
	if g.Clipping() {
		lines = append(lines, errorStyle.Render("  ⚠ Bu kazançla ses kırpılacak"))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("    Adım: %.1f dB", s.Step())))
	return strings.Join(lines, "\n")
}

func formatDB(v float64) string {
	if math.IsInf(v, 0) {
		if v < 0 {
			return "-∞ dB"
		}
		return "∞ dB"
	}
	return fmt.Sprintf("%+.1f dB", v)
}

func modalView(kind editor.ModalKind, msg string, width int) string {
	style := resultBoxStyle.Width(max(30, min(72, width-8)))
	title := warnStyle.Render("Onay gerekiyor")
	if kind == editor.ModalNotice {
		style = style.BorderForeground(dangerColor)
		title = errorStyle.Render("Hata")
		msg += "\n\n" + dimStyle.Render("A / B ile kapatın")
	} else {
		style = style.BorderForeground(warningColor)
	}
	return style.Render(title + "\n\n" + msg)
}

func statusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "Kaydedildi"):
		return successStyle
	case strings.HasPrefix(status, "Uygulanamaz"):
		return errorStyle
	}
	return infoStyle
}

func (m editorModel) helpBindings() []key.Binding {
	if m.machine.Step() == editor.StepEditing {
		return m.keys.editingHelp()
	}
	return m.keys.selectionHelp()
}

// ========================================
// Dalga formu ve zaman çizelgesi
// ========================================

// waveformColumns örnekleri width sütuna indirger; her sütun mutlak tepe değeridir.
func waveformColumns(samples []float32, width int) []float64 {
	cols := make([]float64, width)
	if len(samples) == 0 || width <= 0 {
		return cols
	}
	for i := range cols {
		lo := i * len(samples) / width
		hi := (i + 1) * len(samples) / width
		if hi <= lo {
			hi = lo + 1
		}
		peak := 0.0
		for _, s := range samples[lo:min(hi, len(samples))] {
			peak = math.Max(peak, math.Abs(float64(s)))
		}
		cols[i] = math.Min(peak, 1)
	}
	return cols
}

// clipColumns kırpılan örnek içeren sütunları işaretler.
func clipColumns(clipped []bool, width int) []bool {
	cols := make([]bool, width)
	if len(clipped) == 0 || width <= 0 {
		return cols
	}
	for i := range cols {
		lo := i * len(clipped) / width
		hi := max(lo+1, (i+1)*len(clipped)/width)
		for _, c := range clipped[lo:min(hi, len(clipped))] {
			if c {
				cols[i] = true
				break
			}
		}
	}
	return cols
}

// renderWaveform sütunları alttan dolan bloklarla çizer. Seçili sütunlar
// vurgulu, kırpılanlar kırmızıdır.
func renderWaveform(cols []float64, clipped []bool, height int, selected func(i int) bool) string {
	onStyle := lipgloss.NewStyle().Foreground(accentColor)
	offStyle := lipgloss.NewStyle().Foreground(dimTextColor)
	clipStyle := lipgloss.NewStyle().Foreground(dangerColor)

	steps := len(waveLevels) - 1
	rows := make([]string, height)
	for r := 0; r < height; r++ {
		level := height - 1 - r
		var sb strings.Builder
		sb.WriteString("   ")
		for i, v := range cols {
			fill := int(math.Round(v*float64(height*steps))) - level*steps
			fill = max(0, min(fill, steps))
			ch := string(waveLevels[fill])
			switch {
			case clipped != nil && clipped[i]:
				sb.WriteString(clipStyle.Render(ch))
			case selected(i):
				sb.WriteString(onStyle.Render(ch))
			default:
				sb.WriteString(offStyle.Render(ch))
			}
		}
		rows[r] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// markerPositions saniyeleri [0,width-1] aralığındaki sütunlara çevirir.
func markerPositions(start, end, total float64, width int) (int, int) {
	if total <= 0 || width < 1 {
		return 0, 0
	}
	startPos := int((start / total) * float64(width-1))
	endPos := int((end / total) * float64(width-1))
	startPos = max(0, min(startPos, width-1))
	endPos = max(startPos, min(endPos, width-1))
	return startPos, endPos
}

func trimTimelineBar(w *edit.TrimWindow, width int) string {
	if width < 20 {
		width = 20
	}
	startPos, endPos := markerPositions(w.Start(), w.End(), w.Total(), width)

	runes := make([]rune, width)
	for i := range runes {
		runes[i] = '─'
	}
	for i := startPos; i <= endPos; i++ {
		runes[i] = '━'
	}
	runes[startPos] = '◆'
	runes[endPos] = '◆'

	rangeStyle := lipgloss.NewStyle().Foreground(accentColor)
	baseStyle := lipgloss.NewStyle().Foreground(dimTextColor)
	markerStyle := lipgloss.NewStyle().Foreground(warningColor).Bold(true)

	var b strings.Builder
	b.WriteString(baseStyle.Render("["))
	for i, r := range runes {
		ch := string(r)
		switch {
		case i == startPos || i == endPos:
			b.WriteString(markerStyle.Render(ch))
		case i > startPos && i < endPos:
			b.WriteString(rangeStyle.Render(ch))
		default:
			b.WriteString(baseStyle.Render(ch))
		}
	}
	b.WriteString(baseStyle.Render("]"))
	return b.String()
}

// gainMeterRunes kazanç ölçeğini çizer: '│' 0 dB, '┊' tepe boşluğu, '●' mevcut kazanç.
func gainMeterRunes(g *edit.Gain, width int) []rune {
	if width < 20 {
		width = 20
	}
	span := g.MaxDB() - g.MinDB()
	pos := func(db float64) int {
		if span <= 0 {
			return 0
		}
		p := int(math.Round((db - g.MinDB()) / span * float64(width-1)))
		return max(0, min(p, width-1))
	}

	runes := make([]rune, width)
	for i := range runes {
		runes[i] = '─'
	}
	cur := pos(g.DB())
	zero := pos(0)
	lo, hi := min(zero, cur), max(zero, cur)
	for i := lo; i <= hi; i++ {
		runes[i] = '━'
	}
	if head := g.HeadroomDB(); !math.IsInf(head, 0) && head >= g.MinDB() && head <= g.MaxDB() {
		runes[pos(head)] = '┊'
	}
	runes[zero] = '│'
	runes[cur] = '●'
	return runes
}

func gainMeter(g *edit.Gain, width int) string {
	runes := gainMeterRunes(g, width)
	baseStyle := lipgloss.NewStyle().Foreground(dimTextColor)
	fillStyle := lipgloss.NewStyle().Foreground(accentColor)
	if g.Clipping() {
		fillStyle = lipgloss.NewStyle().Foreground(dangerColor)
	}
	markerStyle := lipgloss.NewStyle().Foreground(warningColor).Bold(true)

	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%+.0f ", g.MinDB())))
	for _, r := range runes {
		ch := string(r)
		switch r {
		case '●', '┊':
			b.WriteString(markerStyle.Render(ch))
		case '━':
			b.WriteString(fillStyle.Render(ch))
		default:
			b.WriteString(baseStyle.Render(ch))
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %+.0f", g.MaxDB())))
	return b.String()
}

// ========================================
// Yardımcı fonksiyonlar
// ========================================

func getHomeDir() string {
	u, err := user.Current()
	if err != nil {
		return "/"
	}
	return u.HomeDir
}

func shortenPath(path string) string {
	home := getHomeDir()
	if home != "/" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

func gradientText(text string, colors []lipgloss.Color) string {
	if len(colors) == 0 {
		return text
	}
	var result strings.Builder
	for i, r := range []rune(text) {
		style := lipgloss.NewStyle().Bold(true).Foreground(colors[i%len(colors)])
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func padRunes(s string, n int) string {
	if pad := n - len([]rune(s)); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
