package cellflow

// diffSlices computes the minimal set of contiguous splices transforming
// old into next. Common prefix and suffix are trimmed first; the middle
// is aligned with a longest-common-subsequence edit script, and adjacent
// removals and insertions collapse into one splice per changed region.
// Splice indexes are in old's coordinates; applying the result back to
// front reproduces next.
func diffSlices(old, next []any) []Splice {
	// Trim common prefix.
	prefix := 0
	for prefix < len(old) && prefix < len(next) && identical(old[prefix], next[prefix]) {
		prefix++
	}

	// Trim common suffix, not overlapping the prefix.
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(next)-prefix &&
		identical(old[len(old)-1-suffix], next[len(next)-1-suffix]) {
		suffix++
	}

	a := old[prefix : len(old)-suffix]
	b := next[prefix : len(next)-suffix]

	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	if len(a) == 0 || len(b) == 0 {
		// Pure insertion or pure removal: one region.
		return []Splice{{
			Index:    prefix,
			Removed:  append([]any(nil), a...),
			Inserted: append([]any(nil), b...),
		}}
	}

	return lcsSplices(a, b, prefix)
}

// lcsSplices aligns a against b and groups the edit script into
// contiguous splice regions. offset shifts region indexes back into the
// caller's coordinates.
func lcsSplices(a, b []any, offset int) []Splice {
	m, n := len(a), len(b)

	// dp[i][j] is the LCS length of a[i:] and b[j:].
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if identical(a[i], b[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var splices []Splice
	var region *Splice

	flush := func() {
		if region != nil {
			splices = append(splices, *region)
			region = nil
		}
	}
	open := func(i int) *Splice {
		if region == nil {
			region = &Splice{Index: offset + i}
		}
		return region
	}

	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && identical(a[i], b[j]) && dp[i][j] == dp[i+1][j+1]+1:
			flush()
			i++
			j++
		case i < m && (j >= n || dp[i+1][j] >= dp[i][j+1]):
			r := open(i)
			r.Removed = append(r.Removed, a[i])
			i++
		default:
			r := open(i)
			r.Inserted = append(r.Inserted, b[j])
			j++
		}
	}
	flush()

	return splices
}
