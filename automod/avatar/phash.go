package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
)

// PHashClassifier scores an avatar by perceptual-hash distance to a curated
// set of known-bad images. Zero Hamming distance scores 1.0; distance at or
// beyond maxDistance scores 0.
type PHashClassifier struct {
	known []*goimagehash.ImageHash
	// hamming distance (out of 64 bits) beyond which images count as unrelated
	maxDistance int
}

var _ Classifier = (*PHashClassifier)(nil)

// NewPHashClassifier parses known-bad hashes in goimagehash string form
// ("p:c3d4e5f6a7b80912").
func NewPHashClassifier(hashes []string, maxDistance int) (*PHashClassifier, error) {
	if maxDistance <= 0 {
		maxDistance = 16
	}
	c := &PHashClassifier{maxDistance: maxDistance}
	for _, h := range hashes {
		parsed, err := goimagehash.ImageHashFromString(h)
		if err != nil {
			return nil, fmt.Errorf("parsing known-bad hash %q: %w", h, err)
		}
		c.known = append(c.known, parsed)
	}
	return c, nil
}

func (c *PHashClassifier) ScoreImage(ctx context.Context, img []byte) (float64, error) {
	if len(c.known) == 0 {
		return 0, nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return 0, fmt.Errorf("decoding avatar image: %w", err)
	}
	hash, err := goimagehash.PerceptionHash(decoded)
	if err != nil {
		return 0, fmt.Errorf("hashing avatar image: %w", err)
	}
	best := -1
	for _, k := range c.known {
		dist, err := hash.Distance(k)
		if err != nil {
			continue
		}
		if best < 0 || dist < best {
			best = dist
		}
	}
	if best < 0 || best >= c.maxDistance {
		return 0, nil
	}
	return 1.0 - float64(best)/float64(c.maxDistance), nil
}
