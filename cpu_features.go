package complexmul

import (
	vmcpu "github.com/cwbudde/algo-vecmath/cpu"
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks instruction set extensions relevant to host devices
type CPUFeatures struct {
	HasSSE4    bool
	HasAVX     bool
	HasAVX2    bool
	HasFMA     bool
	HasAVX512F bool
	HasASIMD   bool // ARM64 Advanced SIMD
	HasSVE     bool // ARM64 Scalable Vector Extension
}

// DetectCPUFeatures reads the host's extensions.
func DetectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasFMA:     cpu.X86.HasFMA,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasASIMD:   cpu.ARM64.HasASIMD,
		HasSVE:     cpu.ARM64.HasSVE,
	}
}

// Extensions lists the detected extensions by name.
func (f CPUFeatures) Extensions() []string {
	var ext []string
	for _, e := range []struct {
		has  bool
		name string
	}{
		{f.HasSSE4, "SSE4"},
		{f.HasAVX, "AVX"},
		{f.HasAVX2, "AVX2"},
		{f.HasFMA, "FMA"},
		{f.HasAVX512F, "AVX512F"},
		{f.HasASIMD, "ASIMD"},
		{f.HasSVE, "SVE"},
	} {
		if e.has {
			ext = append(ext, e.name)
		}
	}
	return ext
}

// vectorLevel names the SIMD path the vector math kernels will take, or ""
// when only the generic path is available.
func vectorLevel(f vmcpu.Features) string {
	switch {
	case f.ForceGeneric:
		return ""
	case f.HasAVX512:
		return "AVX-512"
	case f.HasAVX2:
		return "AVX2"
	case f.HasNEON:
		return "NEON"
	case f.HasSSE2:
		return "SSE2"
	default:
		return ""
	}
}
