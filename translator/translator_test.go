package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMappedName(t *testing.T) {
	names := map[string]string{"tex0": "_utex0"}
	assert.Equal(t, "_utex0", MappedName(names, "tex0"))
	assert.Equal(t, "tex1", MappedName(names, "tex1"))
	assert.Equal(t, "tex1", MappedName(nil, "tex1"))
}
