package entity

import "fmt"

// Blend is the compositing mode the renderer applies to a sprite.
type Blend int

const (
	BlendNormal Blend = iota
	BlendAdd
	BlendLighter
	BlendMultiply
	BlendInvert
)

var blendKeys = [...]string{
	BlendNormal:   "n",
	BlendAdd:      "a",
	BlendLighter:  "l",
	BlendMultiply: "m",
	BlendInvert:   "i",
}

// Key returns the single-character map file code of the blend mode.
func (b Blend) Key() string {
	if b < 0 || int(b) >= len(blendKeys) {
		return blendKeys[BlendNormal]
	}
	return blendKeys[b]
}

func (b Blend) String() string { return b.Key() }

// ParseBlendKey maps a map file code back to a blend mode.
func ParseBlendKey(key string) (Blend, error) {
	for b, k := range blendKeys {
		if k == key {
			return Blend(b), nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend key %q", key)
}
