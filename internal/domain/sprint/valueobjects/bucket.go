package valueobjects

import (
	"fmt"
	"slices"
	"strings"
)

// Bucket is a named category of tickets defined by a fixed set of status codes.
type Bucket struct {
	key   string
	label string
	codes []StatusCode
}

func NewBucket(key, label string, codes ...StatusCode) (Bucket, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Bucket{}, fmt.Errorf("bucket key is required")
	}
	if len(codes) == 0 {
		return Bucket{}, fmt.Errorf("bucket %q has no status codes", key)
	}
	if label == "" {
		label = key
	}
	sorted := slices.Clone(codes)
	slices.Sort(sorted)
	return Bucket{key: key, label: label, codes: slices.Compact(sorted)}, nil
}

func (b Bucket) Key() string { return b.key }
func (b Bucket) Label() string { return b.label }
func (b Bucket) Codes() []StatusCode { return slices.Clone(b.codes) }

func (b Bucket) Contains(code StatusCode) bool {
	_, found := slices.BinarySearch(b.codes, code)
	return found
}

// BucketSet is an ordered partition of status codes. No code belongs to more
// than one bucket; codes outside every bucket are allowed.
type BucketSet struct {
	buckets []Bucket
	index   map[StatusCode]int
}

// NewBucketSet rejects duplicate keys and overlapping code sets.
func NewBucketSet(buckets ...Bucket) (*BucketSet, error) {
	set := &BucketSet{
		buckets: make([]Bucket, 0, len(buckets)),
		index:   make(map[StatusCode]int),
	}
	keys := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		if keys[b.key] {
			return nil, fmt.Errorf("duplicate bucket key %q", b.key)
		}
		keys[b.key] = true
		for _, code := range b.codes {
			if owner, taken := set.index[code]; taken {
				return nil, fmt.Errorf("status code %d is in both %q and %q", code, set.buckets[owner].key, b.key)
			}
			set.index[code] = len(set.buckets)
		}
		set.buckets = append(set.buckets, b)
	}
	return set, nil
}

// EmptyBucketSet classifies nothing. Layouts without buckets use it.
func EmptyBucketSet() *BucketSet {
	set, _ := NewBucketSet()
	return set
}

// Classify returns the bucket holding code.
func (s *BucketSet) Classify(code StatusCode) (Bucket, bool) {
	i, ok := s.index[code]
	if !ok {
		return Bucket{}, false
	}
	return s.buckets[i], true
}

func (s *BucketSet) Buckets() []Bucket {
	return slices.Clone(s.buckets)
}

func (s *BucketSet) Len() int {
	return len(s.buckets)
}

// DefaultBucketSet is the workflow partition used by the helpdesk.
func DefaultBucketSet() *BucketSet {
	notStarted, _ := NewBucket("not_started", "Total não Iniciado", 3)
	inExecution, _ := NewBucket("in_execution", "Total em Execução", 8)
	inTest, _ := NewBucket("in_test", "Total em Teste", 9, 12, 13)
	completed, _ := NewBucket("completed", "Total de Concluídos", 7, 14, 15, 17)

	set, err := NewBucketSet(notStarted, inExecution, inTest, completed)
	if err != nil {
		panic(err)
	}
	return set
}
