package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// SkinClassifier is a crude offline fallback for deployments without a
// classifier service: the score is simply the fraction of skin-tone pixels.
// High false-positive rate; intended for the soft tier only.
type SkinClassifier struct{}

var _ Classifier = (*SkinClassifier)(nil)

func (c *SkinClassifier) ScoreImage(ctx context.Context, img []byte) (float64, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return 0, fmt.Errorf("decoding avatar image: %w", err)
	}
	bounds := decoded.Bounds()
	total := 0
	skin := 0
	// sampling every other pixel is plenty for a ratio
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x += 2 {
			r16, g16, b16, _ := decoded.At(x, y).RGBA()
			r, g, b := int(r16>>8), int(g16>>8), int(b16>>8)
			total++
			if isSkinTone(r, g, b) {
				skin++
			}
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(skin) / float64(total), nil
}

// classic RGB skin-tone bounds (Kovac et al.)
func isSkinTone(r, g, b int) bool {
	if r <= 95 || g <= 40 || b <= 20 {
		return false
	}
	if r <= g || r <= b {
		return false
	}
	max := r
	min := r
	for _, v := range []int{g, b} {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max-min > 15 && abs(r-g) > 15
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
