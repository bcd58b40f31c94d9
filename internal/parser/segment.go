package parser

// Segment returns the lines strictly between the first line equal to start
// and the next line equal to end. An empty end collects to the end of input.
// A missing start yields no lines.
func Segment(lines []string, start, end string) []string {
	var found []string
	recording := false
	for _, line := range lines {
		if !recording {
			recording = line == start
			continue
		}
		if end != "" && line == end {
			break
		}
		found = append(found, line)
	}
	return found
}

// SegmentAt returns lines[start+1:end], or everything after start when end is negative.
// Sections cut this way never overlap, even when header texts repeat.
func SegmentAt[T any](lines []T, start, end int) []T {
	if start < 0 || start >= len(lines) {
		return nil
	}
	if end < 0 || end > len(lines) {
		end = len(lines)
	}
	if end <= start+1 {
		return nil
	}
	out := make([]T, end-start-1)
	copy(out, lines[start+1:end])
	return out
}
