// Package translator wraps goshadertranslator for shaders written as
// GLSL ES 3.00.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process wide translator, starting it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		ctx := context.Background()
		translator, translatorErr = gst.NewShaderTranslator(ctx)
		if translatorErr != nil {
			translatorErr = fmt.Errorf("failed to start shader translator: %w", translatorErr)
		}
	})
	return translator, translatorErr
}

// Stage names accepted by Translate.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
)

// Translator turns WebGL2 sources into code the host GL context compiles.
type Translator struct {
	gles bool
}

// New returns a Translator emitting ESSL when gles is set and GLSL 4.10
// otherwise.
func New(gles bool) *Translator {
	return &Translator{gles: gles}
}

// Translate returns the translated code and the mapping from each variable's
// source name to the name it has in the translated code.
func (t *Translator) Translate(source, stage string) (string, map[string]string, error) {
	tr, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}
	outputFormat := gst.OutputFormatGLSL410
	if t.gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		if v.MappedName != "" {
			names[name] = v.MappedName
		}
	}
	return out.Code, names, nil
}

// MappedName looks name up in names, falling back to name itself.
func MappedName(names map[string]string, name string) string {
	if m, ok := names[name]; ok {
		return m
	}
	return name
}
