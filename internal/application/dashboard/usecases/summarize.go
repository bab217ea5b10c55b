package usecases

import (
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
)

// Summarizer reduces a result set to SummaryCounts.
type Summarizer struct {
	buckets *valueobjects.BucketSet
}

// NewSummarizer creates a Summarizer. A nil bucket set disables bucket counts.
func NewSummarizer(buckets *valueobjects.BucketSet) *Summarizer {
	if buckets == nil {
		buckets = valueobjects.EmptyBucketSet()
	}
	return &Summarizer{buckets: buckets}
}

func (s *Summarizer) Summarize(rs sprint.ResultSet) dto.SummaryCounts {
	bucketList := s.buckets.Buckets()
	counts := make([]dto.BucketCount, len(bucketList))
	position := make(map[string]int, len(bucketList))
	for i, b := range bucketList {
		counts[i] = dto.BucketCount{Key: b.Key(), Label: b.Label()}
		position[b.Key()] = i
	}

	unbucketed := 0
	for _, r := range rs {
		b, ok := s.buckets.Classify(r.StatusCode)
		if !ok {
			unbucketed++
			continue
		}
		counts[position[b.Key()]].Count++
	}

	return dto.SummaryCounts{
		Total:                rs.Len(),
		DistinctUsers:        rs.Distinct(sprint.FieldAssignedUser),
		DistinctResponsibles: rs.Distinct(sprint.FieldResponsibleUser),
		DistinctStatuses:     rs.Distinct(sprint.FieldStatus),
		Buckets:              counts,
		Unbucketed:           unbucketed,
	}
}
