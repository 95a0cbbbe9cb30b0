package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputArgs(t *testing.T) {
	args := inputArgs(Config{Width: 640, Height: 480, FPS: 30})
	assert.Equal(t, "rawvideo", args["f"])
	assert.Equal(t, "rgba", args["pix_fmt"])
	assert.Equal(t, "640x480", args["s"])
	assert.Equal(t, 30, args["r"])
}

func TestOutputArgs(t *testing.T) {
	args := outputArgs(Config{OutputFile: "out.mp4", Codec: "h264"})
	assert.Equal(t, "vflip", args["vf"])
	assert.Equal(t, "yuv420p", args["pix_fmt"])
	assert.Contains(t, args["c:v"], "264")
	assert.NotContains(t, args, "tag:v")

	args = outputArgs(Config{OutputFile: "out.mp4", Codec: "hevc"})
	assert.Equal(t, "hvc1", args["tag:v"])

	args = outputArgs(Config{OutputFile: "out.mkv", Codec: "hevc"})
	assert.NotContains(t, args, "tag:v")
}

func TestNewRecorderValidates(t *testing.T) {
	_, err := NewRecorder(Config{OutputFile: "out.mp4", Width: 0, Height: 10, FPS: 30})
	require.Error(t, err)

	_, err = NewRecorder(Config{OutputFile: "out.mp4", Width: 10, Height: 10})
	require.Error(t, err)

	_, err = NewRecorder(Config{Width: 10, Height: 10, FPS: 30})
	require.Error(t, err)
}
