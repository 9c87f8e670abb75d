package pipeline

// RunStats tracks aggregate counters and byte totals across one scan.
type RunStats struct {
	Total      int
	Probed     int
	Failed     int
	CacheHits  int
	TotalBytes int64
}
