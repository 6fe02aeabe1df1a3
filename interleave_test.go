package pcm_test

import (
	"fmt"
	"slices"
	"testing"

	pcm "github.com/mycophonic/saprobe-pcm"
)

func TestDeinterleaveStereoScenario(t *testing.T) {
	t.Parallel()

	src := []float32{0.1, -0.1, 0.2, -0.2}
	planes := [][]float32{make([]float32, 2), make([]float32, 2)}

	pcm.Deinterleave(planes, src, 2)

	if !slices.Equal(planes[0], []float32{0.1, 0.2}) {
		t.Errorf("left = %v", planes[0])
	}

	if !slices.Equal(planes[1], []float32{-0.1, -0.2}) {
		t.Errorf("right = %v", planes[1])
	}

	back := make([]float32, 4)
	pcm.Interleave(back, planes, 2)

	if !slices.Equal(back, src) {
		t.Errorf("re-interleaved = %v, want %v", back, src)
	}
}

func TestInterleaveInverse(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 3, 6, 8} {
		for _, frames := range []int{0, 1, 7, 480} {
			t.Run(fmt.Sprintf("%dch_%d", channels, frames), func(t *testing.T) {
				t.Parallel()

				planes := make([][]float32, channels)
				for ch := range planes {
					planes[ch] = make([]float32, frames)
					for i := range frames {
						// Values outside [-1, 1] must pass through untouched.
						planes[ch][i] = float32(ch*1000+i) / 3
					}
				}

				interleaved := make([]float32, channels*frames)
				pcm.Interleave(interleaved, planes, frames)

				for i := range frames {
					for ch := range channels {
						if interleaved[i*channels+ch] != planes[ch][i] {
							t.Fatalf("frame %d channel %d misplaced", i, ch)
						}
					}
				}

				restored := make([][]float32, channels)
				for ch := range restored {
					restored[ch] = make([]float32, frames)
				}

				pcm.Deinterleave(restored, interleaved, frames)

				for ch := range channels {
					if !slices.Equal(restored[ch], planes[ch]) {
						t.Fatalf("channel %d not restored", ch)
					}
				}
			})
		}
	}
}
