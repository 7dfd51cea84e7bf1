package waveform

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrToolMissing ffmpeg PATH'te bulunamadığında döner.
var ErrToolMissing = errors.New("ffmpeg bulunamadı")

// FFmpegAnalyzer dosyayı ffmpeg ile mono f32le PCM'e çözüp analiz eder.
type FFmpegAnalyzer struct {
	FFmpegPath string
	SampleRate int
	Resolution int
}

// NewFFmpegAnalyzer ffmpeg'i PATH'te arar. Bulunamazsa Analyze ErrToolMissing döner.
func NewFFmpegAnalyzer() *FFmpegAnalyzer {
	path, _ := exec.LookPath("ffmpeg")
	return &FFmpegAnalyzer{
		FFmpegPath: path,
		SampleRate: 8000,
		Resolution: DefaultResolution,
	}
}

func (a *FFmpegAnalyzer) Analyze(ctx context.Context, path string) (Analysis, error) {
	if a.FFmpegPath == "" {
		return Analysis{SourcePath: path}, ErrToolMissing
	}
	pcm, err := a.decode(ctx, path)
	if err != nil {
		return Analysis{SourcePath: path}, err
	}
	res, err := FromPCM(path, pcm, a.SampleRate, a.Resolution)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func (a *FFmpegAnalyzer) decode(ctx context.Context, path string) ([]float32, error) {
	cmd := exec.CommandContext(ctx, a.FFmpegPath,
		"-v", "error",
		"-i", path,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ac", "1",
		"-ar", strconv.Itoa(a.SampleRate),
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg başlatılamadı: %w", err)
	}

	pcm, readErr := readF32LE(bufio.NewReader(stdout))
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if readErr != nil {
		return nil, fmt.Errorf("okuma: %w", readErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("ffmpeg hatası: %w\n%s", waitErr, strings.TrimSpace(stderr.String()))
	}
	return pcm, nil
}

// readF32LE little-endian float32 akışını sonuna kadar okur.
// Sondaki eksik örnek atılır.
func readF32LE(r io.Reader) ([]float32, error) {
	var out []float32
	buf := make([]byte, 4*4096)
	var carry []byte
	for {
		n, err := r.Read(buf)
		chunk := buf[:n]
		if len(carry) > 0 {
			chunk = append(carry, chunk...)
			carry = nil
		}
		whole := len(chunk) / 4 * 4
		for i := 0; i < whole; i += 4 {
			out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(chunk[i:i+4])))
		}
		if whole < len(chunk) {
			carry = append([]byte(nil), chunk[whole:]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
