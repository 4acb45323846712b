package nnue

import "golang.org/x/sys/cpu"

// hasWideDotProduct reports whether the current CPU exposes the wide integer
// SIMD extensions (AVX2 on x86, NEON on arm64) the unrolled dot-product loop
// below is tuned for. Checked once at package init rather than per call,
// mirroring how the teacher's sfnnue package picks its inner loop per build
// target rather than re-probing every evaluation.
var hasWideDotProduct = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// dotProductInt8 computes sum(a[i] * b[i]); Network.Forward uses it for the
// output affine layer.
// On CPUs with wide integer SIMD it unrolls by 8 so the Go compiler's
// auto-vectorizer can pack the multiply-adds into the available vector
// registers; elsewhere it falls back to the plain scalar loop.
func dotProductInt8(a []int8, b []int8) int32 {
	if hasWideDotProduct {
		return dotProductInt8Unrolled(a, b)
	}
	return dotProductInt8Scalar(a, b)
}

func dotProductInt8Scalar(a, b []int8) int32 {
	var sum int32
	for i := range a {
		sum += int32(a[i]) * int32(b[i])
	}
	return sum
}

func dotProductInt8Unrolled(a, b []int8) int32 {
	n := len(a)
	var sum int32
	i := 0
	for ; i+8 <= n; i += 8 {
		sum += int32(a[i])*int32(b[i]) +
			int32(a[i+1])*int32(b[i+1]) +
			int32(a[i+2])*int32(b[i+2]) +
			int32(a[i+3])*int32(b[i+3]) +
			int32(a[i+4])*int32(b[i+4]) +
			int32(a[i+5])*int32(b[i+5]) +
			int32(a[i+6])*int32(b[i+6]) +
			int32(a[i+7])*int32(b[i+7])
	}
	for ; i < n; i++ {
		sum += int32(a[i]) * int32(b[i])
	}
	return sum
}
