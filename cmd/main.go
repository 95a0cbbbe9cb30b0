package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderfluff/encoder"
	"github.com/richinsley/goshaderfluff/glfwcontext"
	"github.com/richinsley/goshaderfluff/glgpu"
	"github.com/richinsley/goshaderfluff/graphics"
	"github.com/richinsley/goshaderfluff/options"
	"github.com/richinsley/goshaderfluff/renderer"
	"github.com/richinsley/goshaderfluff/shader"
	"github.com/richinsley/goshaderfluff/translator"
)

// canvasPadding is the margin kept clear around the fragment area.
const canvasPadding = 100

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(os.Args[0], os.Args[1:], nil)
	if err != nil {
		log.Fatalf("Failed to parse options: %v", err)
	}
	if *opts.Help {
		fmt.Println("Shader Fluff: live feedback shader composer")
		fs, _ := options.NewFlagSet(os.Args[0])
		fs.PrintDefaults()
		return
	}
	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(opts *options.ShaderOptions) error {
	format, err := opts.Format()
	if err != nil {
		return err
	}
	dialect, err := shader.ParseDialect(*opts.Dialect)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window is hidden.
	ctx, err := glfwcontext.New(opts, !*opts.Record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	var devOpts []glgpu.Option
	if dialect.Translated() {
		devOpts = append(devOpts, glgpu.WithTranslator(translator.New(false)))
	}
	dev, err := glgpu.NewDevice(devOpts...)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	canvas, err := glgpu.NewCanvas()
	if err != nil {
		return err
	}
	defer canvas.Destroy()

	size := *opts.TextureSize
	img, err := loadImage(*opts.DefaultImage, size)
	if err != nil {
		return err
	}
	defaultTexture, err := dev.CreateTextureFromImage("default texture", img)
	if err != nil {
		return err
	}
	defer defaultTexture.Release()

	fbWidth, fbHeight := ctx.GetFramebufferSize()
	area := renderer.RectFromXYWH(0, 0, float32(fbWidth), float32(fbHeight)).Pad(canvasPadding)
	bounds := area.DivideRowsColumns(1, 2)[0][1]

	model, err := renderer.NewModel(dev, renderer.ModelConfig{
		Dir:         *opts.ShaderDir,
		UtilityPath: *opts.UtilityPath,
		Default:     defaultTexture,
		Size:        img.Bounds().Size(),
		Bounds:      bounds,
		Format:      format,
		Dialect:     dialect,
	})
	if err != nil {
		return fmt.Errorf("failed to load fragments: %w", err)
	}
	defer model.Release()

	if *opts.Prewarm {
		if err := model.Prepare(dev); err != nil {
			return fmt.Errorf("failed to compile fragments: %w", err)
		}
	}

	var rng *rand.Rand
	if *opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(*opts.Seed, *opts.Seed))
	}
	ctx.RegisterKeyCallback(glfw.KeyR, func() {
		model.RandomizeParameters(rng)
		log.Println("Randomized parameters")
	})

	var recorder *encoder.Recorder
	var totalFrames int64
	if *opts.Record {
		recorder, err = encoder.NewRecorder(encoder.Config{
			OutputFile: *opts.OutputFile,
			Codec:      *opts.Codec,
			FFMPEGPath: *opts.FFMPEGPath,
			Width:      fbWidth,
			Height:     fbHeight,
			FPS:        *opts.FPS,
		})
		if err != nil {
			return err
		}
		totalFrames = int64(*opts.Duration * float64(*opts.FPS))
		log.Printf("Starting offscreen render loop for %d frames...", totalFrames)
	} else {
		log.Println("Starting interactive render loop...")
	}

	if err := loop(ctx, dev, canvas, model, recorder, totalFrames); err != nil {
		if recorder != nil {
			recorder.Close()
		}
		return err
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			return err
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
	}
	return nil
}

// loop renders frames until the window closes or totalFrames have been
// recorded.
func loop(ctx graphics.Context, dev *glgpu.Device, canvas *glgpu.Canvas, model *renderer.Model, recorder *encoder.Recorder, totalFrames int64) error {
	for !ctx.ShouldClose() {
		x, y, w, h := ctx.GetPointer()
		if err := model.Update(dev, renderer.PointerPosition{X: x, Y: y, Width: w, Height: h}); err != nil {
			return err
		}

		width, height := ctx.GetFramebufferSize()
		canvas.Begin(width, height)
		model.Draw(canvas)

		if recorder != nil {
			if rw, rh := recorder.Size(); width != rw || height != rh {
				return fmt.Errorf("framebuffer resized to %dx%d while recording", width, height)
			}
			if err := recorder.WriteFrame(canvas.ReadPixels()); err != nil {
				return err
			}
			if recorder.Frames() >= totalFrames {
				return nil
			}
		}
		ctx.EndFrame()
	}

	return nil
}
