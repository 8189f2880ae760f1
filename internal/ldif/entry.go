// Package ldif models directory entries and writes them in LDIF text form.
package ldif

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Attr is one attribute value line.
type Attr struct {
	Name  string
	Value string
}

// Entry is a directory entry: a DN plus ordered attribute values.
type Entry struct {
	DN    string
	Attrs []Attr
}

// NewEntry creates an entry with the given object classes.
func NewEntry(dn string, objectClasses ...string) *Entry {
	e := &Entry{DN: dn}
	return e.Add("objectclass", objectClasses...)
}

// Add appends one line per value.
func (e *Entry) Add(name string, values ...string) *Entry {
	for _, v := range values {
		e.Attrs = append(e.Attrs, Attr{Name: name, Value: v})
	}
	return e
}

// AddIf appends values when cond holds.
func (e *Entry) AddIf(cond bool, name string, values ...string) *Entry {
	if cond {
		return e.Add(name, values...)
	}
	return e
}

// AddNonEmpty appends value unless it is empty.
func (e *Entry) AddNonEmpty(name, value string) *Entry {
	return e.AddIf(value != "", name, value)
}

// Get returns all values of an attribute, matched case-insensitively.
func (e *Entry) Get(name string) []string {
	var out []string
	for _, a := range e.Attrs {
		if strings.EqualFold(a.Name, name) {
			out = append(out, a.Value)
		}
	}
	return out
}

// First returns the first value of an attribute or "".
func (e *Entry) First(name string) string {
	if v := e.Get(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Attributes groups repeated attribute names in first-seen order.
func (e *Entry) Attributes() []*ldap.EntryAttribute {
	var out []*ldap.EntryAttribute
	byName := map[string]*ldap.EntryAttribute{}
	for _, a := range e.Attrs {
		attr, ok := byName[a.Name]
		if !ok {
			attr = &ldap.EntryAttribute{Name: a.Name}
			byName[a.Name] = attr
			out = append(out, attr)
		}
		attr.Values = append(attr.Values, a.Value)
	}
	return out
}

// LDAP converts the entry to its go-ldap form.
func (e *Entry) LDAP() *ldap.Entry {
	return &ldap.Entry{DN: e.DN, Attributes: e.Attributes()}
}
