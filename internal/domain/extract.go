package domain

import "fmt"

// DefaultAnchor marks the start of the occupancy script block on the portal
// page. The object literal begins at the first '{' after it.
const DefaultAnchor = "var data"

// facilityEntry is one code→record pair from the collection literal, before
// code→name resolution. Entries with unrecognized codes are dropped by
// Extract, so the type stays internal.
type facilityEntry struct {
	code   string
	status FacilityStatus
}

// dictKey reads a quoted key followed by ':' and surrounding whitespace,
// returning the key text.
func (s *scanner) dictKey() (string, error) {
	key, err := s.quotedString()
	if err != nil {
		return "", err
	}
	s.skipWhitespace()
	if err := s.literal(":"); err != nil {
		return "", err
	}
	s.skipWhitespace()
	return key, nil
}

// expectField reads a dictKey and requires it to equal name exactly. The
// strict name and order check is the drift detector; do not loosen it.
func (s *scanner) expectField(name string) error {
	start := s.pos
	key, err := s.dictKey()
	if err != nil {
		return err
	}
	if key != name {
		return &ParseError{Kind: ErrFieldMismatch, Pos: start, Expected: name, Found: key}
	}
	return nil
}

// intField reads an integer-valued field with the given name.
func (s *scanner) intField(name string) (int, error) {
	if err := s.expectField(name); err != nil {
		return 0, err
	}
	return s.integer()
}

// record parses one facility record:
//
//	{ 'capacity': N, 'count': M, ...ignored... }
//
// Fields must appear in that order. Anything after 'count' is skipped by
// scanning to the next '}' (see the package doc for the nested-brace
// limitation this accepts).
func (s *scanner) record() (FacilityStatus, error) {
	if err := s.literal("{"); err != nil {
		return FacilityStatus{}, err
	}
	s.skipWhitespace()

	capacity, err := s.intField("capacity")
	if err != nil {
		return FacilityStatus{}, fmt.Errorf("field %q: %w", "capacity", err)
	}
	s.skipWhitespace()
	if err := s.literal(","); err != nil {
		return FacilityStatus{}, err
	}
	s.skipWhitespace()

	count, err := s.intField("count")
	if err != nil {
		return FacilityStatus{}, fmt.Errorf("field %q: %w", "count", err)
	}

	if err := s.skipUntil("}"); err != nil {
		return FacilityStatus{}, err
	}
	s.pos++ // consume '}'

	return FacilityStatus{Capacity: capacity, Occupancy: count}, nil
}

// collection parses the brace-delimited, comma-separated set of code→record
// entries. A trailing comma after the last entry is allowed and an empty
// collection '{}' is valid.
func (s *scanner) collection() ([]facilityEntry, error) {
	if err := s.literal("{"); err != nil {
		return nil, err
	}
	s.skipWhitespace()

	var entries []facilityEntry
	for !s.peek('}') {
		code, err := s.quotedString()
		if err != nil {
			return nil, err
		}
		s.skipWhitespace()
		if err := s.literal(":"); err != nil {
			return nil, err
		}
		s.skipWhitespace()

		status, err := s.record()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", code, err)
		}
		entries = append(entries, facilityEntry{code: code, status: status})

		s.skipWhitespace()
		if s.peek(',') {
			s.pos++
			s.skipWhitespace()
			continue
		}
		break
	}

	if err := s.literal("}"); err != nil {
		return nil, err
	}
	return entries, nil
}

// Extract locates the occupancy object literal in the raw page text, parses
// it, and resolves facility codes through the names table. Codes absent from
// the table are dropped silently; the portal may report locations we do not
// track. A page containing the anchor and an empty literal yields an empty,
// non-nil mapping — that is a successful extraction, not a failure.
//
// Extraction is a single forward pass with no backtracking: the first
// sub-parser failure aborts the whole call. There is no partial result.
func Extract(raw, anchor string, names map[string]string) (map[string]FacilityStatus, error) {
	s := newScanner(raw)

	if err := s.skipUntil(anchor); err != nil {
		return nil, err
	}
	s.pos += len(anchor)
	if err := s.skipUntil("{"); err != nil {
		return nil, err
	}

	entries, err := s.collection()
	if err != nil {
		return nil, err
	}

	result := make(map[string]FacilityStatus, len(entries))
	for _, e := range entries {
		name, ok := names[e.code]
		if !ok {
			continue
		}
		result[name] = e.status
	}
	return result, nil
}
