// Package dedupe removes duplicate contacts.
package dedupe

import "github.com/sells-group/leadgen-cli/internal/model"

// key identifies a contact by name and company. A nil field and an empty
// string are different keys.
type key struct {
	name, company       string
	hasName, hasCompany bool
}

func keyOf(c model.Contact) key {
	var k key
	if c.Name != nil {
		k.name, k.hasName = *c.Name, true
	}
	if c.Company != nil {
		k.company, k.hasCompany = *c.Company, true
	}
	return k
}

// Contacts keeps the first contact for each (name, company) pair, preserving
// input order, and reports how many were dropped.
func Contacts(in []model.Contact) ([]model.Contact, int) {
	seen := make(map[key]struct{}, len(in))
	out := make([]model.Contact, 0, len(in))
	for _, c := range in {
		k := keyOf(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out, len(in) - len(out)
}
