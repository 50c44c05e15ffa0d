package tween

// FrameAnimationOption is a functional option for configuring a FrameAnimation.
type FrameAnimationOption func(*FrameAnimation)

// WithLoops sets how many times the frames play. Use Forever to loop until Stop.
// The default plays them once.
//
// Parameters:
//   - loops: play count, or Forever
//
// Returns:
//   - FrameAnimationOption: option function to apply
func WithLoops(loops int) FrameAnimationOption {
	return func(a *FrameAnimation) {
		a.seq.SetLoop(loops)
	}
}

// WithYoyo plays the frames forward then backward. One loop covers both directions.
//
// Parameters:
//   - yoyo: true to bounce
//
// Returns:
//   - FrameAnimationOption: option function to apply
func WithYoyo(yoyo bool) FrameAnimationOption {
	return func(a *FrameAnimation) {
		a.seq.SetYoyo(yoyo)
	}
}
