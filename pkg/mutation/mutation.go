// Package mutation classifies a file mutation as a structure-preserving
// refactor or a structural evolution. The heuristic is deliberately cheap and
// language-agnostic: regex-grade feature extraction, never a full parse. Its
// job is to furnish a semantic label for the trace ledger, not to be provably
// correct.
package mutation

// Class is the semantic label attached to a recorded mutation.
type Class string

const (
	// Refactor marks a mutation that preserves the file's structure.
	Refactor Class = "AST_REFACTOR"

	// Evolution marks a mutation that changes the file's structure.
	Evolution Class = "INTENT_EVOLUTION"
)

// Valid reports whether c is one of the closed set of classes.
func (c Class) Valid() bool {
	return c == Refactor || c == Evolution
}

// Classify labels the transition from oldContent to newContent. A nil
// oldContent means the file did not previously exist. The hint, when valid,
// is the agent's own declared class and is honored only in the ambiguous
// middle band of the heuristic.
func Classify(oldContent *string, newContent string, hint Class) Class {
	if oldContent == nil {
		return Evolution
	}
	if *oldContent == newContent {
		return Refactor
	}

	oldFeat := extractFeatures(*oldContent)
	newFeat := extractFeatures(newContent)

	similarity := 0.4*jaccard(oldFeat.functions, newFeat.functions) +
		0.4*jaccard(oldFeat.classes, newFeat.classes) +
		0.2*jaccard(oldFeat.imports, newFeat.imports)

	changeRatio := contentChangeRatio(*oldContent, newContent)

	if similarity > 0.8 && changeRatio < 0.3 {
		return Refactor
	}

	if symmetricDiffers(oldFeat.functions, newFeat.functions) ||
		symmetricDiffers(oldFeat.classes, newFeat.classes) {
		return Evolution
	}

	oldLines := countLines(*oldContent)
	newLines := countLines(newContent)
	delta := newLines - oldLines
	if delta < 0 {
		delta = -delta
	}
	if oldLines == 0 {
		if delta > 0 {
			return Evolution
		}
	} else if float64(delta)/float64(oldLines) > 0.2 {
		return Evolution
	}
	if delta > 50 {
		return Evolution
	}

	if similarity < 0.5 {
		return Evolution
	}
	if changeRatio > 0.5 {
		return Evolution
	}

	if hint.Valid() && similarity > 0.6 && changeRatio < 0.4 {
		return hint
	}
	return Refactor
}

// jaccard computes set similarity. Two empty sets are fully similar.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

// symmetricDiffers reports whether any member appears in exactly one set.
func symmetricDiffers(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return true
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return true
		}
	}
	return false
}
