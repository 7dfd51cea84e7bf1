package installer

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// Tools düzenleyicinin çalışma zamanında aradığı harici araçlardır.
var Tools = []Tool{
	{Name: "ffmpeg", Purpose: "kırpma ve kazanç uygulama, dalga formu çözme"},
	{Name: "ffplay", Purpose: "önizleme çalma", Optional: true},
}

const manualURL = "https://ffmpeg.org/download.html"

// Tool PATH'te aranan bir yürütülebilir dosyadır.
type Tool struct {
	Name     string `json:"name"`
	Purpose  string `json:"purpose"`
	Optional bool   `json:"optional"`
}

// Status bir aracın bulunma durumudur.
type Status struct {
	Tool
	Path  string `json:"path,omitempty"`
	Found bool   `json:"found"`
}

// InstallPlan paket yöneticisiyle FFmpeg kurulumunu tarif eder.
type InstallPlan struct {
	Manager     string
	Command     string
	Args        []string
	Description string
	ManualURL   string
	Supported   bool
}

// LookPath testlerde değiştirilebilir.
var LookPath = exec.LookPath

var managers = map[string][]string{
	"darwin":  {"brew"},
	"linux":   {"apt", "dnf", "yum", "pacman"},
	"windows": {"winget", "choco"},
}

var plans = map[string]InstallPlan{
	"brew":   {Command: "brew", Args: []string{"install", "ffmpeg"}},
	"apt":    {Command: "sudo", Args: []string{"apt", "install", "-y", "ffmpeg"}},
	"dnf":    {Command: "sudo", Args: []string{"dnf", "install", "-y", "ffmpeg"}},
	"yum":    {Command: "sudo", Args: []string{"yum", "install", "-y", "ffmpeg"}},
	"pacman": {Command: "sudo", Args: []string{"pacman", "-S", "--noconfirm", "ffmpeg"}},
	"winget": {Command: "winget", Args: []string{"install", "Gyan.FFmpeg"}},
	"choco":  {Command: "choco", Args: []string{"install", "ffmpeg", "-y"}},
}

// DetectPackageManager goos için bilinen ilk paket yöneticisini döner.
func DetectPackageManager(goos string) string {
	for _, pm := range managers[goos] {
		if _, err := LookPath(pm); err == nil {
			return pm
		}
	}
	return ""
}

// Check araçları PATH'te arar.
func Check(tools []Tool) []Status {
	out := make([]Status, 0, len(tools))
	for _, t := range tools {
		st := Status{Tool: t}
		if p, err := LookPath(t.Name); err == nil {
			st.Path, st.Found = p, true
		}
		out = append(out, st)
	}
	return out
}

// MissingRequired zorunlu olup bulunamayan araçları döner.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, st := range statuses {
		if !st.Found && !st.Optional {
			missing = append(missing, st.Name)
		}
	}
	return missing
}

// PlanFor verilen paket yöneticisi için kurulum planı üretir.
// ffplay aynı paketle gelir.
func PlanFor(pm string) InstallPlan {
	plan, ok := plans[pm]
	if !ok {
		return InstallPlan{Manager: pm, ManualURL: manualURL}
	}
	plan.Manager = pm
	plan.ManualURL = manualURL
	plan.Supported = true
	plan.Description = strings.Join(append([]string{plan.Command}, plan.Args...), " ")
	return plan
}

// CurrentPlan bu makine için kurulum planını döner.
func CurrentPlan() InstallPlan {
	return PlanFor(DetectPackageManager(runtime.GOOS))
}

// Install planı çalıştırır; kurulum çıktısı out'a akar.
func Install(plan InstallPlan, stdin io.Reader, out io.Writer) error {
	if !plan.Supported {
		return fmt.Errorf("FFmpeg otomatik olarak kurulamıyor.\nManuel kurulum: %s", plan.ManualURL)
	}
	c := exec.Command(plan.Command, plan.Args...)
	c.Stdin = stdin
	c.Stdout = out
	c.Stderr = out
	if err := c.Run(); err != nil {
		return fmt.Errorf("FFmpeg kurulumu başarısız: %w", err)
	}
	return nil
}
