package document

// Batch is an ordered group of documents submitted together.
// Order is insertion order.
type Batch []Document

// Len returns the number of documents in the batch.
func (b Batch) Len() int {
	return len(b)
}

// Empty returns true if the batch has no documents.
func (b Batch) Empty() bool {
	return len(b) == 0
}

// Indices returns the distinct index names in the batch in first-seen order.
func (b Batch) Indices() []string {
	seen := make(map[string]struct{}, 1)
	var out []string
	for _, d := range b {
		if _, ok := seen[d.Index]; ok {
			continue
		}
		seen[d.Index] = struct{}{}
		out = append(out, d.Index)
	}
	return out
}
