package opendata

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IngestionResult maps a record key to its Record, remembering insertion order so the artifact
// and the downloads follow the seed file.
type IngestionResult struct {
	records *orderedmap.OrderedMap[string, Record]
}

func NewIngestionResult() *IngestionResult {
	return &IngestionResult{
		records: orderedmap.New[string, Record](),
	}
}

// Set stores a record.  Replacing an existing key keeps its original position.  A nil Data is
// stored as an empty list, so it serialises as [] rather than null.
func (r *IngestionResult) Set(key string, record Record) {
	if r.records == nil {
		r.records = orderedmap.New[string, Record]()
	}
	if record.Data == nil {
		record.Data = []string{}
	}
	r.records.Set(key, record)
}

func (r *IngestionResult) Get(key string) (Record, bool) {
	if r.records == nil {
		return Record{}, false
	}
	return r.records.Get(key)
}

// Keys returns the record keys in insertion order.
func (r *IngestionResult) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.records == nil {
		return keys
	}
	for pair := r.records.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (r *IngestionResult) Len() int {
	if r.records == nil {
		return 0
	}
	return r.records.Len()
}

// URLs flattens every record's resources, in order.
func (r *IngestionResult) URLs() []string {
	urls := []string{}
	if r.records == nil {
		return urls
	}
	for pair := r.records.Oldest(); pair != nil; pair = pair.Next() {
		urls = append(urls, pair.Value.Data...)
	}
	return urls
}

func (r *IngestionResult) MarshalJSON() ([]byte, error) {
	if r.records == nil {
		return []byte("{}"), nil
	}
	b, err := r.records.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("opendata: couldn't marshal ingestion result: %w", err)
	}
	return b, nil
}

func (r *IngestionResult) UnmarshalJSON(b []byte) error {
	decoded := orderedmap.New[string, Record]()
	if err := decoded.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("opendata: couldn't decode ingestion result: %w", err)
	}

	r.records = orderedmap.New[string, Record]()
	for pair := decoded.Oldest(); pair != nil; pair = pair.Next() {
		r.Set(pair.Key, pair.Value)
	}

	return nil
}
