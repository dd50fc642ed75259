//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.

//go:embed shaders/stackblur.wgsl
var stackBlurShaderWGSL string

// Workgroup dimensions declared by @workgroup_size in stackblur.wgsl.
const (
	workgroupSizeX = 8
	workgroupSizeY = 8
)

// compileSPIRV compiles WGSL source to SPIR-V words.
// SPIR-V is little-endian 32-bit words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V size %d is not word aligned", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// workgroups returns the dispatch size covering n invocations.
func workgroups(n, size uint32) uint32 {
	return (n + size - 1) / size
}
