package covers

// candidate is a cover file under consideration for merging
type candidate struct {
	path string
	size int64
}

// bucketBySize groups candidates by truncated size (floor of size/1024).
// Exact duplicates always have identical sizes and so always land in the same
// bucket; files whose sizes differ by a kilobyte or more never share one.
// Only buckets with two or more members are worth hashing, which bounds the
// expensive step to files that could plausibly match.
func bucketBySize(cands []candidate) map[int64][]candidate {
	buckets := make(map[int64][]candidate)
	for _, c := range cands {
		key := c.size / 1024
		buckets[key] = append(buckets[key], c)
	}
	return buckets
}
