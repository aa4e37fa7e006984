package core

// KnownURLSet is the deduplication ledger of a scraping session.
// It grows as records are accepted and is shared by every category pass of the session.
// It is not safe for concurrent use; a session owns it exclusively.
type KnownURLSet map[string]struct{}

// NewKnownURLSet returns a set seeded with urls.
func NewKnownURLSet(urls ...string) KnownURLSet {
	s := make(KnownURLSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// KnownURLsFromRecords seeds a set from previously saved records.
func KnownURLsFromRecords(records []ProductRecord) KnownURLSet {
	s := make(KnownURLSet, len(records))
	for _, r := range records {
		if r.ProductURL != "" {
			s.Add(r.ProductURL)
		}
	}
	return s
}

// Has reports whether url was already seen. Matching is exact and case-sensitive.
func (s KnownURLSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Add records url as seen.
func (s KnownURLSet) Add(url string) {
	s[url] = struct{}{}
}

// Len returns the number of known URLs.
func (s KnownURLSet) Len() int {
	return len(s)
}
