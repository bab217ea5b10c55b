package dto

// BucketCount is the number of tickets whose status code falls in one bucket.
type BucketCount struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// SummaryCounts holds the scalar aggregates of one result set.
// Unbucketed tickets are counted in Total only.
type SummaryCounts struct {
	Total                int           `json:"total" yaml:"total"`
	DistinctUsers        int           `json:"distinct_users" yaml:"distinct_users"`
	DistinctResponsibles int           `json:"distinct_responsibles" yaml:"distinct_responsibles"`
	DistinctStatuses     int           `json:"distinct_statuses" yaml:"distinct_statuses"`
	Buckets              []BucketCount `json:"buckets" yaml:"buckets"`
	Unbucketed           int           `json:"unbucketed" yaml:"unbucketed"`
}

// BucketTotal sums the bucket counts.
func (s SummaryCounts) BucketTotal() int {
	total := 0
	for _, b := range s.Buckets {
		total += b.Count
	}
	return total
}

// Bucket returns the count of the bucket with the given key.
func (s SummaryCounts) Bucket(key string) (BucketCount, bool) {
	for _, b := range s.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return BucketCount{}, false
}

// SummaryField is one captioned summary box as shown on the page.
type SummaryField struct {
	ID      string `json:"id" yaml:"id"`
	Caption string `json:"caption" yaml:"caption"`
	Value   string `json:"value" yaml:"value"`
}
