package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/padedit-cli/internal/input"
	"github.com/mlihgenel/padedit-cli/internal/ui"
)

var devicesWatch time.Duration

type deviceInfo struct {
	Player    int    `json:"player"`
	Path      string `json:"path"`
	Connected bool   `json:"connected"`
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Bağlı gamepad'leri listele",
	Long: `Sistemdeki joystick düğümlerini (/dev/input/js*) listeler.
--watch verilirse seçilen gamepad'in basılan düğmelerini canlı gösterir.

Örnekler:
  padedit-cli devices
  padedit-cli devices --watch 10s --player 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(); err != nil {
			return err
		}
		if devicesWatch > 0 {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			return watchDevice(commandContext(cmd), s, devicesWatch)
		}

		devices := listDevices(input.JoystickPaths())
		if isJSONOutput() {
			return printJSON(devices)
		}
		if len(devices) == 0 {
			ui.PrintWarning("Gamepad bulunamadı; klavye ile devam edebilirsiniz")
			return nil
		}
		rows := make([][]string, 0, len(devices))
		for _, d := range devices {
			state := "açılamadı"
			if d.Connected {
				state = "hazır"
			}
			rows = append(rows, []string{fmt.Sprintf("%d", d.Player), d.Path, state})
		}
		ui.PrintTable([]string{"Oyuncu", "Düğüm", "Durum"}, rows)
		return nil
	},
}

func init() {
	devicesCmd.Flags().DurationVar(&devicesWatch, "watch", 0, "Düğmeleri bu süre boyunca canlı göster (ör. 10s)")
	devicesCmd.Flags().StringVar(&devicePath, "device", "", "Joystick düğümü (ör. /dev/input/js0)")
	devicesCmd.Flags().IntVar(&playerIndex, "player", 0, "Oyuncu sırası")
	rootCmd.AddCommand(devicesCmd)
}

func listDevices(paths []string) []deviceInfo {
	devices := make([]deviceInfo, 0, len(paths))
	for i, p := range paths {
		j := input.OpenJoystick(p)
		_, ok := j.Poll(0)
		j.Close()
		devices = append(devices, deviceInfo{Player: i, Path: p, Connected: ok})
	}
	return devices
}

func watchDevice(parent context.Context, s settings, d time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	dev := input.OpenJoystick(s.Device)
	poller := s.newPoller(dev)

	out := make(chan input.Snapshot, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx, out)
	}()

	ui.PrintInfo(fmt.Sprintf("Oyuncu %d dinleniyor (%s)...", s.Player, ui.FormatDuration(d)))
	watchLoop(ctx, out, os.Stdout)
	<-done
	return dev.Close()
}

// watchLoop bağlantı değişimlerini ve basılan düğmeleri bağlam bitene kadar yazar.
func watchLoop(ctx context.Context, snaps <-chan input.Snapshot, w io.Writer) {
	connected, first := false, true
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-snaps:
			if first || snap.Connected != connected {
				first = false
				connected = snap.Connected
				state := "bağlı değil"
				if connected {
					state = "bağlı"
				}
				fmt.Fprintf(w, "%s %s\n", ui.IconPad, state)
			}
			if snap.Pressed != 0 {
				fmt.Fprintf(w, "  %s  yeni: %-10s basılı: %-16s LT %3d  RT %3d\n",
					snap.At.Format("15:04:05.000"), snap.Pressed, snap.Held, snap.LeftTrigger, snap.RightTrigger)
			}
		}
	}
}
