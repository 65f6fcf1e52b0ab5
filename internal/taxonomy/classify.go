package taxonomy

import (
	"strings"
)

// Label is one organizable item. For tags ID and Name are the tag itself and
// Group is the persisted bucket; for categories Tags carries the marker tags.
type Label struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Group string   `json:"group,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

type Bucket struct {
	Name   string  `json:"name"`
	Labels []Label `json:"labels"`
}

// Partition holds every bucket in declared order, fallback last, including empty ones.
type Partition []Bucket

// BucketOf returns the bucket holding label id, or "" when absent.
func (p Partition) BucketOf(id string) string {
	for _, b := range p {
		for _, l := range b.Labels {
			if l.ID == id {
				return b.Name
			}
		}
	}
	return ""
}

func (p Partition) Label(id string) (Label, bool) {
	for _, b := range p {
		for _, l := range b.Labels {
			if l.ID == id {
				return l, true
			}
		}
	}
	return Label{}, false
}

func (p Partition) Len() int {
	n := 0
	for _, b := range p {
		n += len(b.Labels)
	}
	return n
}

func (p Partition) clone() Partition {
	out := make(Partition, len(p))
	for i, b := range p {
		out[i] = Bucket{Name: b.Name, Labels: append([]Label(nil), b.Labels...)}
	}
	return out
}

// Classify assigns each label to exactly one bucket. A persisted Group that
// names a known bucket wins; otherwise the first matching rule in declared
// order decides, and unmatched labels go to the fallback bucket.
func Classify(r Rules, labels []Label) Partition {
	out := make(Partition, 0, len(r.Buckets)+1)
	index := map[string]int{}
	for i, name := range r.BucketNames() {
		out = append(out, Bucket{Name: name, Labels: []Label{}})
		index[name] = i
	}
	for _, l := range labels {
		name := BucketFor(r, l)
		out[index[name]].Labels = append(out[index[name]].Labels, l)
	}
	return out
}

// BucketFor classifies a single label.
func BucketFor(r Rules, l Label) string {
	if g := strings.TrimSpace(l.Group); g != "" && r.HasBucket(g) {
		return g
	}
	name := strings.ToLower(strings.TrimSpace(l.Name))
	for _, b := range r.Buckets {
		if b.Marker != "" && hasTag(l.Tags, b.Marker) {
			return b.Name
		}
		for _, k := range b.Keywords {
			if strings.Contains(name, k) {
				return b.Name
			}
		}
	}
	return r.Fallback
}

// RetagForBucket strips every marker from tags and adds the destination
// bucket's marker; the fallback bucket gets no marker.
func RetagForBucket(r Rules, tags []string, bucket string) []string {
	markers := r.Markers()
	out := make([]string, 0, len(tags)+1)
	for _, t := range tags {
		if !hasTag(markers, t) {
			out = append(out, t)
		}
	}
	if m := r.MarkerFor(bucket); m != "" {
		out = append(out, m)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
