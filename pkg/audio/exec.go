package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/tts"
)

// ExecPlayer plays clips through a local command line player, for
// development machines with no RTP receiver. MP3 clips go to ffplay (or
// mpg123); PCM clips are piped raw.
type ExecPlayer struct {
	tempDir string
}

// NewExecPlayer creates a player that stages clips under dir. An empty dir
// uses the system temp directory.
func NewExecPlayer(dir string) (*ExecPlayer, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "formcoach-audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audio: create temp dir: %w", err)
	}
	return &ExecPlayer{tempDir: dir}, nil
}

// Play writes the clip to a temp file, plays it, and removes the file.
func (p *ExecPlayer) Play(ctx context.Context, clip *tts.Clip) error {
	file, err := os.CreateTemp(p.tempDir, "clip_*"+p.extension(clip))
	if err != nil {
		return fmt.Errorf("audio: create temp file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.Write(clip.Audio); err != nil {
		file.Close()
		return fmt.Errorf("audio: write clip: %w", err)
	}
	file.Close()

	cmd := p.command(ctx, clip, path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio: playback command: %w", err)
	}
	return nil
}

// Close removes any clips left behind by interrupted playback.
func (p *ExecPlayer) Close() error {
	matches, err := filepath.Glob(filepath.Join(p.tempDir, "clip_*"))
	if err != nil {
		return nil
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			log.Debug("audio: temp cleanup", "file", m, "error", err)
		}
	}
	return nil
}

func (p *ExecPlayer) extension(clip *tts.Clip) string {
	if clip.Format.Encoding == tts.EncodingMP3 {
		return ".mp3"
	}
	return ".pcm"
}

func (p *ExecPlayer) command(ctx context.Context, clip *tts.Clip, path string) *exec.Cmd {
	if clip.Format.Encoding == tts.EncodingMP3 {
		return exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path)
	}
	return exec.CommandContext(ctx, "ffplay",
		"-f", "s16le",
		"-ar", fmt.Sprint(clip.Format.SampleRate),
		"-ch_layout", "mono",
		"-nodisp", "-autoexit", "-loglevel", "quiet",
		path)
}
