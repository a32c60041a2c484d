package vision

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"strings"
)

// FaceSize is the edge length of the square face crop the model expects.
const FaceSize = 48

// Tensor layouts understood by [TensorShape].
const (
	LayoutNHWC = "nhwc"
	LayoutNCHW = "nchw"
)

// SelectFace applies the first-result policy: the first detected region wins, in detector order.
func SelectFace(regions []image.Rectangle) (image.Rectangle, bool) {
	for _, r := range regions {
		if !r.Empty() {
			return r, true
		}
	}
	return image.Rectangle{}, false
}

// ClampRegion intersects a detected region with the buffer bounds.
func ClampRegion(region, bounds image.Rectangle) (image.Rectangle, error) {
	clamped := region.Intersect(bounds)
	if clamped.Empty() {
		return image.Rectangle{}, fmt.Errorf("face region %v outside image bounds %v", region, bounds)
	}
	return clamped, nil
}

// Normalize scales 8-bit intensities into [0,1].
func Normalize(gray []byte) []float32 {
	out := make([]float32, len(gray))
	for i, v := range gray {
		out[i] = float32(v) / 255.0
	}
	return out
}

// TensorShape returns the rank-4 input shape for a single 48x48 grayscale face.
func TensorShape(layout string) ([]int, error) {
	switch strings.ToLower(layout) {
	case "", LayoutNHWC:
		return []int{1, FaceSize, FaceSize, 1}, nil
	case LayoutNCHW:
		return []int{1, 1, FaceSize, FaceSize}, nil
	default:
		return nil, fmt.Errorf("unknown tensor layout %q", layout)
	}
}

// TensorBytes encodes float32 values as little-endian bytes for a CV_32F matrix.
func TensorBytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// ArgMax returns the index of the highest score; ties resolve to the lowest index.
func ArgMax(scores []float32) (int, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("empty score vector")
	}
	best := -1
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			return 0, fmt.Errorf("score %d is NaN", i)
		}
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best, nil
}
