package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlihgenel/padedit-cli/internal/installer"
	"github.com/mlihgenel/padedit-cli/internal/ui"
)

func TestDoctorReportListsMissingTools(t *testing.T) {
	statuses := []installer.Status{
		{Tool: installer.Tool{Name: "ffmpeg", Purpose: "kırpma"}},
		{Tool: installer.Tool{Name: "ffplay", Purpose: "önizleme", Optional: true}},
	}
	report := buildDoctorReport(statuses, installer.PlanFor("brew"))
	if len(report.Missing) != 1 || report.Missing[0] != "ffmpeg" {
		t.Fatalf("unexpected missing tools: %v", report.Missing)
	}
	if report.InstallCommand != "brew install ffmpeg" {
		t.Fatalf("unexpected install command: %q", report.InstallCommand)
	}

	var out bytes.Buffer
	prev := ui.Out
	ui.Out = &out
	t.Cleanup(func() { ui.Out = prev })

	printDoctorReport(report)
	text := out.String()
	for _, want := range []string{"ffmpeg", "isteğe bağlı", "brew install ffmpeg"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestDoctorReportWithoutPackageManager(t *testing.T) {
	statuses := []installer.Status{{Tool: installer.Tool{Name: "ffmpeg"}, Found: true, Path: "/usr/bin/ffmpeg"}}
	report := buildDoctorReport(statuses, installer.PlanFor(""))
	if len(report.Missing) != 0 || report.InstallCommand != "" {
		t.Fatalf("unexpected report: %+v", report)
	}
}
