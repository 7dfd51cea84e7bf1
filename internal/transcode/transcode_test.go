package transcode

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestNormalizeConflictPolicy(t *testing.T) {
	if got := NormalizeConflictPolicy(""); got != ConflictVersioned {
		t.Fatalf("expected default policy %s, got %s", ConflictVersioned, got)
	}
	if got := NormalizeConflictPolicy("OVERWRITE"); got != ConflictOverwrite {
		t.Fatalf("expected overwrite, got %s", got)
	}
	if got := NormalizeConflictPolicy("bad"); got != "" {
		t.Fatalf("expected empty for invalid policy, got %s", got)
	}
}

func TestResolveConflictVersioned(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song_trim.mp3")
	writeFile(t, path, "x")
	writeFile(t, filepath.Join(dir, "song_trim (1).mp3"), "x")

	got, skip, err := ResolveConflict(path, ConflictVersioned)
	if err != nil || skip {
		t.Fatalf("unexpected result: %v %v", skip, err)
	}
	if want := filepath.Join(dir, "song_trim (2).mp3"); got != want {
		t.Fatalf("unexpected resolved path: %s", got)
	}
}

func TestOutputPathAndCodecArgs(t *testing.T) {
	if got := OutputPath("/music/Song.Name.flac", "_gain"); got != "/music/Song.Name_gain.flac" {
		t.Fatalf("unexpected output path: %s", got)
	}
	if args := AudioCodecArgs("/x/a.tmp.MP3"); args[1] != "libmp3lame" {
		t.Fatalf("unexpected codec args: %v", args)
	}
	if args := AudioCodecArgs("/x/a.wav"); args[1] != "pcm_s16le" {
		t.Fatalf("unexpected codec args: %v", args)
	}
}

// fakeRunner son argümana (çıktı) yazar ve argümanları kaydeder.
type fakeRunner struct {
	args []string
	fail error
}

func (r *fakeRunner) run(_ context.Context, _ string, args []string) error {
	r.args = args
	if r.fail != nil {
		return r.fail
	}
	return os.WriteFile(args[len(args)-1], []byte("edited"), 0644)
}

func newTestFFmpeg(r *fakeRunner) *FFmpeg {
	return &FFmpeg{
		FFmpegPath: "/usr/bin/ffmpeg",
		BackupDir:  DefaultBackupDir,
		OnConflict: ConflictVersioned,
		RunCommand: r.run,
	}
}

func TestApplyTrimMovesOriginalAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.mp3")
	writeFile(t, src, "original")

	r := &fakeRunner{}
	f := newTestFFmpeg(r)
	ok, err := f.ApplyTrim(context.Background(), src, 1.5, 20, "_trim")
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}

	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("original should have been moved")
	}
	backup, err := os.ReadFile(filepath.Join(dir, "originals", "song.mp3"))
	if err != nil || string(backup) != "original" {
		t.Fatalf("expected original in backup folder: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "song_trim.mp3"))
	if err != nil || string(out) != "edited" {
		t.Fatalf("expected edited output: %v", err)
	}

	joined := strings.Join(r.args, " ")
	if !strings.Contains(joined, "-ss 1.500 -to 20.000") || !strings.Contains(joined, "libmp3lame") {
		t.Fatalf("unexpected ffmpeg args: %s", joined)
	}
	temp := r.args[len(r.args)-1]
	if !strings.HasPrefix(filepath.Base(temp), "song_trim.") || !strings.HasSuffix(temp, ".tmp.mp3") {
		t.Fatalf("unexpected temp output name: %s", temp)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestApplyGainVersionsExistingBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.wav")
	writeFile(t, src, "second")
	writeFile(t, filepath.Join(dir, "originals", "song.wav"), "first")

	r := &fakeRunner{}
	f := newTestFFmpeg(r)
	res, err := f.Run(context.Background(), Job{Input: src, Suffix: "_gain", Filter: []string{"-af", "volume=-3.00dB"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Backup != filepath.Join(dir, "originals", "song (1).wav") {
		t.Fatalf("unexpected backup path: %s", res.Backup)
	}

	ok, err := f.ApplyGain(context.Background(), res.Output, 2.5, "_gain")
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}
	if !strings.Contains(strings.Join(r.args, " "), "volume=2.50dB") {
		t.Fatalf("unexpected ffmpeg args: %v", r.args)
	}
}

func TestApplyFailureRestoresOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.ogg")
	writeFile(t, src, "original")

	r := &fakeRunner{fail: errors.New("boom")}
	f := newTestFFmpeg(r)
	ok, err := f.ApplyGain(context.Background(), src, 3, "_gain")
	if ok || err == nil {
		t.Fatalf("expected failure, got %v %v", ok, err)
	}
	data, readErr := os.ReadFile(src)
	if readErr != nil || string(data) != "original" {
		t.Fatalf("expected original restored: %v", readErr)
	}
	if _, err := os.Stat(filepath.Join(dir, "song_gain.ogg")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no output should exist after failure")
	}
}

func TestSkipPolicyRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.mp3")
	writeFile(t, src, "original")
	writeFile(t, filepath.Join(dir, "song_trim.mp3"), "older edit")

	f := newTestFFmpeg(&fakeRunner{})
	f.OnConflict = ConflictSkip
	if _, err := f.Run(context.Background(), Job{Input: src, Suffix: "_trim"}); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("expected output exists error, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("original must stay in place when skipped")
	}
}

func TestMissingToolIsRecoverable(t *testing.T) {
	f := &FFmpeg{}
	ok, err := f.ApplyTrim(context.Background(), "/music/a.mp3", 0, 1, "_trim")
	if ok || err != nil {
		t.Fatalf("missing ffmpeg must report false, nil; got %v %v", ok, err)
	}
}

func TestApplyTrimRealFFmpeg(t *testing.T) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg bulunamadı")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	gen := exec.Command(ffmpegPath, "-v", "error", "-f", "lavfi", "-i", "sine=frequency=440:duration=3", src)
	if b, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("tone generation failed: %v\n%s", err, b)
	}

	f := New("")
	ok, err := f.ApplyTrim(context.Background(), src, 0.5, 1.5, "_trim")
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tone_trim.wav")); err != nil {
		t.Fatalf("expected trimmed output: %v", err)
	}
}
