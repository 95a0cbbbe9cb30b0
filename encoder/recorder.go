// Package encoder records composited frames to a video file through an
// ffmpeg process.
package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one RGBA8 frame read back from the canvas, bottom row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Config struct {
	OutputFile string
	Codec      string
	FFMPEGPath string
	Width      int
	Height     int
	FPS        int
}

// Recorder pipes raw frames into ffmpeg. Frames are produced on the render
// thread and consumed by a goroutine that feeds the pipe.
type Recorder struct {
	cfg    Config
	frames chan *Frame
	done   chan error
	pts    int64
}

func inputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}
}

func outputArgs(cfg Config) ffmpeg.KwArgs {
	outputArgs := ffmpeg.KwArgs{
		// GL rows arrive bottom-up
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	outputArgs["b:v"] = "25M"

	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return outputArgs
}

// NewRecorder starts ffmpeg writing to cfg.OutputFile.
func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid recording frame rate %d", cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return nil, fmt.Errorf("no output file for recording")
	}

	r := &Recorder{
		cfg:    cfg,
		frames: make(chan *Frame, 5),
		done:   make(chan error, 1),
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(cfg)).
		Output(cfg.OutputFile, outputArgs(cfg)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- ffmpegCmd.Run()
		// unblock the writer if ffmpeg exits early
		pipeReader.Close()
	}()

	go r.run(pipeWriter, errc)
	log.Printf("Recording %dx%d at %d fps to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.OutputFile)
	return r, nil
}

func (r *Recorder) run(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Println(writeErr)
		}
	}
	w.Close()

	if err := <-errc; err != nil {
		r.done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	r.done <- writeErr
}

// WriteFrame queues a copy of pixels, which must hold Width*Height RGBA8
// texels.
func (r *Recorder) WriteFrame(pixels []byte) error {
	want := r.cfg.Width * r.cfg.Height * 4
	if len(pixels) != want {
		return fmt.Errorf("frame of %d bytes, want %d", len(pixels), want)
	}
	r.frames <- &Frame{Pixels: append([]byte(nil), pixels...), PTS: r.pts}
	r.pts++
	return nil
}

// Size returns the frame size the recorder expects.
func (r *Recorder) Size() (int, int) { return r.cfg.Width, r.cfg.Height }

// Frames returns the number of frames queued so far.
func (r *Recorder) Frames() int64 { return r.pts }

// Close flushes the queued frames and waits for ffmpeg to finish.
func (r *Recorder) Close() error {
	close(r.frames)
	return <-r.done
}
