package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/installer"
	"github.com/mlihgenel/padedit-cli/internal/ui"
)

var doctorInstall bool

type doctorReport struct {
	Tools          []installer.Status `json:"tools"`
	Missing        []string           `json:"missing,omitempty"`
	PackageManager string             `json:"package_manager,omitempty"`
	InstallCommand string             `json:"install_command,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "FFmpeg araçlarını kontrol et",
	Long: `ffmpeg ve ffplay araçlarının PATH'te olup olmadığını kontrol eder.
--install verilirse eksik FFmpeg paketini sistemin paket yöneticisiyle kurar.

Örnekler:
  padedit-cli doctor
  padedit-cli doctor --install`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		report := buildDoctorReport(installer.Check(installer.Tools), installer.CurrentPlan())
		if isJSONOutput() {
			return printJSON(report)
		}
		printDoctorReport(report)

		if len(report.Missing) == 0 {
			return nil
		}
		if !doctorInstall {
			return fmt.Errorf("eksik araç: %s", strings.Join(report.Missing, ", "))
		}
		return runInstall(installer.CurrentPlan(), os.Stdin, os.Stdout)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorInstall, "install", false, "Eksik FFmpeg paketini kur")
	rootCmd.AddCommand(doctorCmd)
}

func buildDoctorReport(statuses []installer.Status, plan installer.InstallPlan) doctorReport {
	report := doctorReport{Tools: statuses, Missing: installer.MissingRequired(statuses)}
	if plan.Supported {
		report.PackageManager = plan.Manager
		report.InstallCommand = plan.Description
	}
	return report
}

func printDoctorReport(r doctorReport) {
	rows := make([][]string, 0, len(r.Tools))
	for _, st := range r.Tools {
		state := ui.IconSuccess + " " + st.Path
		if !st.Found {
			state = ui.IconError + " yok"
			if st.Optional {
				state = ui.IconWarning + " yok (isteğe bağlı)"
			}
		}
		rows = append(rows, []string{st.Name, state, st.Purpose})
	}
	ui.PrintTable([]string{"Araç", "Durum", "Kullanım"}, rows)

	if len(r.Missing) == 0 {
		return
	}
	if r.InstallCommand != "" {
		ui.PrintInfo(fmt.Sprintf("Kurmak için: %s  (veya padedit-cli doctor --install)", r.InstallCommand))
	} else {
		ui.PrintInfo("Manuel kurulum: https://ffmpeg.org/download.html")
	}
}

func runInstall(plan installer.InstallPlan, stdin io.Reader, out io.Writer) error {
	ui.PrintInfo(fmt.Sprintf("Kuruluyor: %s", plan.Description))
	if err := installer.Install(plan, stdin, out); err != nil {
		return err
	}
	if missing := installer.MissingRequired(installer.Check(installer.Tools)); len(missing) > 0 {
		return fmt.Errorf("kurulumdan sonra hâlâ eksik: %s", strings.Join(missing, ", "))
	}
	ui.PrintSuccess("FFmpeg kuruldu")
	return nil
}
