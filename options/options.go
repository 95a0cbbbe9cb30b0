package options

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goshaderfluff/gpu"
)

type ShaderOptions struct {
	Config       *string
	ShaderDir    *string
	UtilityPath  *string
	DefaultImage *string
	Help         *bool
	Width        *int
	Height       *int
	TextureSize  *int
	BitDepth     *int
	Dialect      *string
	Prewarm      *bool // compile every pipeline before the first frame
	Record       *bool
	Duration     *float64
	FPS          *int
	OutputFile   *string
	Codec        *string
	FFMPEGPath   *string
	Seed         *uint64 // seed for parameter randomisation, 0 picks one
}

// NewFlagSet registers every option on a new flag set.
func NewFlagSet(name string) (*flag.FlagSet, *ShaderOptions) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o := &ShaderOptions{
		Config:       fs.String("config", "", "TOML file supplying values for flags not given on the command line"),
		ShaderDir:    fs.String("shaders", "assets/fragments", "Directory of fragment shaders"),
		UtilityPath:  fs.String("utility", "assets/utility_shaders/frag_utility.glsl", "Source substituted for #import lines"),
		DefaultImage: fs.String("image", "assets/happy-tree.png", "Image sampled before the first frame"),
		Help:         fs.Bool("help", false, "Show help message"),
		Width:        fs.Int("width", 1800, "Window width"),
		Height:       fs.Int("height", 900, "Window height"),
		TextureSize:  fs.Int("size", 512, "Side of each fragment's output texture"),
		BitDepth:     fs.Int("bitdepth", 8, "Output texture bit depth: 8, 16 or 32"),
		Dialect:      fs.String("dialect", "glsl410", "Shader dialect of the fragments: glsl410 or webgl2"),
		Prewarm:      fs.Bool("prewarm", true, "Compile every shader before the first frame"),
		Record:       fs.Bool("record", false, "Record the canvas instead of running interactively"),
		Duration:     fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:          fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile:   fs.String("output", "output.mp4", "Output file name for recording"),
		Codec:        fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		FFMPEGPath:   fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Seed:         fs.Uint64("seed", 0, "Seed for parameter randomisation"),
	}
	return fs, o
}

// Parse parses args and then fills every flag that was not given from the
// -config file, if one is named.
func Parse(name string, args []string, output io.Writer) (*ShaderOptions, error) {
	fs, o := NewFlagSet(name)
	if output != nil {
		fs.SetOutput(output)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.Config != "" {
		if err := applyConfig(fs, *o.Config); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func applyConfig(fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	values := map[string]any{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "config" || fs.Lookup(k) == nil {
			return fmt.Errorf("config %s: unknown option %q", path, k)
		}
		if explicit[k] {
			continue
		}
		if err := fs.Set(k, fmt.Sprint(values[k])); err != nil {
			return fmt.Errorf("config %s: option %q: %w", path, k, err)
		}
	}
	return nil
}

// Format returns the output texture format for the configured bit depth.
func (o *ShaderOptions) Format() (gpu.TextureFormat, error) {
	switch *o.BitDepth {
	case 8:
		return gpu.FormatRGBA8, nil
	case 16:
		return gpu.FormatRGBA16F, nil
	case 32:
		return gpu.FormatRGBA32F, nil
	}
	return 0, fmt.Errorf("unsupported bit depth %d", *o.BitDepth)
}
