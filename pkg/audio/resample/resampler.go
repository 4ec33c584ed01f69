// ABOUTME: Linear resampler for converting decoded clips between sample rates
// ABOUTME: Works on whole interleaved buffers, holding the final frame at the tail
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Passthrough reports whether the rates match and no work is needed
func (r *Resampler) Passthrough() bool {
	return r.inputRate == r.outputRate
}

// OutputFrames returns how many frames Process produces for inputFrames
func (r *Resampler) OutputFrames(inputFrames int) int {
	if inputFrames <= 0 {
		return 0
	}
	if r.Passthrough() {
		return inputFrames
	}
	n := int(float64(inputFrames) / r.ratio)
	if n < 1 {
		n = 1
	}
	return n
}

// Process resamples a complete interleaved buffer
func (r *Resampler) Process(input []int32) []int32 {
	inputFrames := len(input) / r.channels
	if r.Passthrough() {
		out := make([]int32, inputFrames*r.channels)
		copy(out, input)
		return out
	}

	outputFrames := r.OutputFrames(inputFrames)
	output := make([]int32, outputFrames*r.channels)

	for outIdx := 0; outIdx < outputFrames; outIdx++ {
		pos := float64(outIdx) * r.ratio
		idx := int(pos)
		if idx >= inputFrames-1 {
			// Past the last pair, hold the final frame
			copy(output[outIdx*r.channels:], input[(inputFrames-1)*r.channels:inputFrames*r.channels])
			continue
		}

		frac := pos - float64(idx)
		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[idx*r.channels+ch]
			sample2 := input[(idx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = int32(float64(sample1)*(1.0-frac) + float64(sample2)*frac)
		}
	}

	return output
}
