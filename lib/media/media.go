package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider — извлечение медиа-производных из видеофайла через ffmpeg
type Provider interface {
	// ExtractAudio извлекает аудиодорожку в WAV (mono, 16 kHz) рядом с видео
	ExtractAudio(ctx context.Context, videoPath string) (audioPath string, err error)
	// SampleFrames извлекает каждый stride-й кадр в JPEG, пути отсортированы по номеру кадра
	SampleFrames(ctx context.Context, videoPath string, stride int) (framePaths []string, err error)
}

func NewExtractor() Provider {
	return &impl{}
}

type impl struct{}

func (i impl) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := checkVideoFile(videoPath); err != nil {
		return "", err
	}
	audioPath := filepath.Join(filepath.Dir(videoPath), "audio.wav")

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn", // без видеопотока
		"-acodec", "pcm_s16le",
		"-ar", "16000", // частота дискретизации под whisper
		"-ac", "1", // моно
		"-y",
		audioPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.WithError(err).
			WithField("ffmpeg_output", string(output)).
			Error("ошибка извлечения аудио")
		return "", errors.Wrapf(err, "ошибка извлечения аудио: %s", string(output))
	}

	stat, err := os.Stat(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "аудиофайл не создан")
	}
	if stat.Size() == 0 {
		return "", errors.New("извлечён пустой аудиофайл, видео без звуковой дорожки")
	}
	return audioPath, nil
}

func (i impl) SampleFrames(ctx context.Context, videoPath string, stride int) ([]string, error) {
	if err := checkVideoFile(videoPath); err != nil {
		return nil, err
	}
	if stride <= 0 {
		stride = 1
	}
	framesDir := filepath.Join(filepath.Dir(videoPath), "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "ошибка создания директории кадров")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", stride),
		"-vsync", "vfr",
		"-q:v", "3",
		"-y",
		filepath.Join(framesDir, "frame_%05d.jpg"),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.WithError(err).
			WithField("ffmpeg_output", string(output)).
			Error("ошибка извлечения кадров")
		return nil, errors.Wrapf(err, "ошибка извлечения кадров: %s", string(output))
	}

	matches, err := filepath.Glob(filepath.Join(framesDir, "frame_*.jpg"))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения извлечённых кадров")
	}
	sort.Strings(matches)
	return matches, nil
}

func checkVideoFile(videoPath string) error {
	stat, err := os.Stat(videoPath)
	if err != nil {
		return errors.Wrapf(err, "видеофайл недоступен (%s)", videoPath)
	}
	if stat.Size() == 0 {
		return errors.Errorf("видеофайл пуст (%s)", videoPath)
	}
	return nil
}
