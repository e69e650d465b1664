package repository

import (
	"regexp"
	"strings"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// segmentKind distinguishes literal collection names from ancestor-id
// placeholders in a collection path template.
type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentPlaceholder
)

type pathSegment struct {
	kind  segmentKind
	value string // collection name, or placeholder label without braces
}

var (
	placeholderPattern = regexp.MustCompile(`^\{([a-zA-Z][a-zA-Z0-9]*)\}$`)
	collectionPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// CollectionPath is a parsed collection path template such as
// "companies/{companyId}/transactions": literal collection names alternating
// with ancestor-id placeholders, terminating in a collection name. It is
// parsed once at construction and never re-parsed per call.
type CollectionPath struct {
	raw      string
	segments []pathSegment
	labels   []string // placeholder labels in root→leaf order
	leaf     string
}

// ParseCollectionPath validates and parses a template. Odd positions must be
// well-formed "{label}" placeholders, even positions plain collection names.
func ParseCollectionPath(raw string) (CollectionPath, error) {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return CollectionPath{}, errors.NewInvalidCollectionPath(raw, "path is empty")
	}
	parts := strings.Split(trimmed, "/")
	if len(parts)%2 == 0 {
		return CollectionPath{}, errors.NewInvalidCollectionPath(raw, "path must terminate in a collection name")
	}

	cp := CollectionPath{raw: trimmed}
	for i, part := range parts {
		if i%2 == 0 {
			if !collectionPattern.MatchString(part) {
				return CollectionPath{}, errors.NewInvalidCollectionPath(raw, "invalid collection name "+part)
			}
			cp.segments = append(cp.segments, pathSegment{kind: segmentLiteral, value: part})
			continue
		}
		m := placeholderPattern.FindStringSubmatch(part)
		if m == nil {
			return CollectionPath{}, errors.NewInvalidCollectionPath(raw, "segment "+part+" is not a placeholder")
		}
		cp.segments = append(cp.segments, pathSegment{kind: segmentPlaceholder, value: m[1]})
		cp.labels = append(cp.labels, m[1])
	}
	cp.leaf = parts[len(parts)-1]
	return cp, nil
}

// Raw returns the template as given, without leading/trailing slashes.
func (cp CollectionPath) Raw() string { return cp.raw }

// Depth returns the number of ancestor levels.
func (cp CollectionPath) Depth() int { return len(cp.labels) }

// IsNested reports whether the template has at least one ancestor level.
func (cp CollectionPath) IsNested() bool { return len(cp.labels) > 0 }

// AncestorLabels returns the placeholder labels in root→leaf order.
func (cp CollectionPath) AncestorLabels() []string {
	return append([]string(nil), cp.labels...)
}

// LeafCollection returns the terminal collection name, the one a
// collection-group query targets.
func (cp CollectionPath) LeafCollection() string { return cp.leaf }

// Resolve substitutes every placeholder with its supplied ancestor id, in
// template order. A missing id fails with MISSING_ANCESTOR_ID.
func (cp CollectionPath) Resolve(ancestorIDs map[string]string) (string, error) {
	parts := make([]string, 0, len(cp.segments))
	for _, seg := range cp.segments {
		if seg.kind == segmentLiteral {
			parts = append(parts, seg.value)
			continue
		}
		id, ok := ancestorIDs[seg.value]
		if !ok || id == "" {
			return "", errors.NewMissingAncestorID(seg.value)
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "/"), nil
}

// ResolveOrdered resolves with ancestor ids given positionally root→leaf.
func (cp CollectionPath) ResolveOrdered(ancestorIDs []string) (string, error) {
	if len(ancestorIDs) != len(cp.labels) {
		missing := "ancestor"
		if len(ancestorIDs) < len(cp.labels) {
			missing = cp.labels[len(ancestorIDs)]
		}
		return "", errors.NewMissingAncestorID(missing)
	}
	byLabel := make(map[string]string, len(cp.labels))
	for i, label := range cp.labels {
		byLabel[label] = ancestorIDs[i]
	}
	return cp.Resolve(byLabel)
}

// ParentDocumentPath returns the path of the immediate parent document of the
// leaf collection, e.g. "companies/c1" for "companies/{companyId}/transactions".
func (cp CollectionPath) ParentDocumentPath(ancestorIDs map[string]string) (string, error) {
	if !cp.IsNested() {
		return "", errors.NewInvalidCollectionPath(cp.raw, "root collection has no parent document")
	}
	parts := make([]string, 0, len(cp.segments)-1)
	for _, seg := range cp.segments[:len(cp.segments)-1] {
		if seg.kind == segmentLiteral {
			parts = append(parts, seg.value)
			continue
		}
		id, ok := ancestorIDs[seg.value]
		if !ok || id == "" {
			return "", errors.NewMissingAncestorID(seg.value)
		}
		parts = append(parts, id)
	}
	return strings.Join(parts, "/"), nil
}

// AncestorValues orders the ids of ancestorIDs by template label order.
func (cp CollectionPath) AncestorValues(ancestorIDs map[string]string) ([]string, error) {
	ordered := make([]string, 0, len(cp.labels))
	for _, label := range cp.labels {
		id, ok := ancestorIDs[label]
		if !ok || id == "" {
			return nil, errors.NewMissingAncestorID(label)
		}
		ordered = append(ordered, id)
	}
	return ordered, nil
}
