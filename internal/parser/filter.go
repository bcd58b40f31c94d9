package parser

// FilterNoise drops page footers and legal boilerplate, keeping the
// relative order of everything else.
func FilterNoise(lines []string) []string {
	return lineTexts(dropNoise(ClassifyLines(lines, StrictDate)))
}

// dropNoise removes LineNoise entries from a classified stream.
func dropNoise(lines []ClassifiedLine) []ClassifiedLine {
	kept := make([]ClassifiedLine, 0, len(lines))
	for _, cl := range lines {
		if cl.Kind == LineNoise {
			continue
		}
		kept = append(kept, cl)
	}
	return kept
}

func lineTexts(lines []ClassifiedLine) []string {
	out := make([]string, len(lines))
	for i, cl := range lines {
		out[i] = cl.Text
	}
	return out
}
