package device

// ScrollFrames returns the intermediate frames of text sliding in over
// current, one column per frame. Both are fitted to width; the final frame
// (text itself) is not included.
func ScrollFrames(current, text string, dir Direction, width int) []string {
	current, text = Fit(current, width), Fit(text, width)
	frames := make([]string, 0, width-1)
	for i := 1; i < width; i++ {
		if dir == ScrollLeft {
			frames = append(frames, current[i:]+text[:i])
		} else {
			frames = append(frames, text[width-i:]+current[:width-i])
		}
	}
	return frames
}

// SlotFrames returns spins random frames per position, settling positions
// left to right. digit supplies each random character.
func SlotFrames(text string, spins, width int, digit func() byte) []string {
	text = Fit(text, width)
	frames := make([]string, 0, width*spins)
	for settled := 0; settled < width; settled++ {
		for spin := 0; spin < spins; spin++ {
			buf := []byte(text)
			for i := settled; i < width; i++ {
				buf[i] = digit()
			}
			frames = append(frames, string(buf))
		}
	}
	return frames
}
