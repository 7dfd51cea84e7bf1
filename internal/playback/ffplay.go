package playback

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// ErrToolMissing ffplay PATH'te yoksa döner.
var ErrToolMissing = errors.New("ffplay bulunamadı")

// Player önizleme çalan dış bileşendir. Stop birden fazla kez çağrılabilir.
type Player interface {
	PlayFrom(path string, offsetSec float64) error
	PlayPreview(path string, volume float64) error
	Stop()
	Playing() bool
}

// FFplay önizlemeyi görüntüsüz bir ffplay süreciyle çalar.
// Aynı anda tek bir süreç çalışır; yeni çalma öncekini durdurur.
type FFplay struct {
	Path string

	// Command süreci oluşturur; testlerde değiştirilebilir.
	Command func(ctx context.Context, name string, args ...string) *exec.Cmd

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFFplay ffplay'i PATH'te arar.
func NewFFplay() *FFplay {
	path, _ := exec.LookPath("ffplay")
	return &FFplay{Path: path, Command: exec.CommandContext}
}

// Available ffplay bulunup bulunmadığını söyler.
func (p *FFplay) Available() bool { return p.Path != "" }

// Args ffplay argümanlarını üretir. volume<0 ise ses seviyesi verilmez.
func Args(path string, offsetSec, volume float64) []string {
	args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	if offsetSec > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offsetSec, 'f', 3, 64))
	}
	if volume >= 0 {
		if volume > 1 {
			volume = 1
		}
		args = append(args, "-volume", strconv.Itoa(int(volume*100+0.5)))
	}
	return append(args, path)
}

func (p *FFplay) PlayFrom(path string, offsetSec float64) error {
	return p.start(Args(path, offsetSec, -1))
}

func (p *FFplay) PlayPreview(path string, volume float64) error {
	return p.start(Args(path, 0, volume))
}

func (p *FFplay) start(args []string) error {
	if p.Path == "" {
		return ErrToolMissing
	}
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	command := p.Command
	if command == nil {
		command = exec.CommandContext
	}
	cmd := command(ctx, p.Path, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("ffplay başlatılamadı: %w", err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()
	return nil
}

// Stop çalan süreci sonlandırır ve bitmesini bekler.
func (p *FFplay) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Playing süreç hâlâ çalışıyorsa true döner.
func (p *FFplay) Playing() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
