package model

// Persona is a target job title used to filter person searches.
type Persona struct {
	Title string `json:"title" yaml:"title"`
}

// Contact is a person found by the person-search API. Any field may be null.
type Contact struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
	Title   *string `json:"title"`
}

// SearchFailure records a person-search call that failed for one
// (company, title) pair.
type SearchFailure struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Error   string `json:"error"`
}

// EmailDraft is a rendered outreach email for one contact.
type EmailDraft struct {
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Contact  Contact `json:"contact"`
}

// Str returns a pointer to s. Handy for building contacts.
func Str(s string) *string {
	return &s
}

// Deref returns the value of p, or fallback when p is nil.
func Deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
