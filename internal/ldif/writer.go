package ldif

import (
	"io"

	goldif "github.com/go-ldap/ldif"
)

// NoFolding keeps every attribute value on a single line.
const NoFolding = -1

// Writer emits entries as LDIF content records.
type Writer struct {
	w         io.Writer
	foldWidth int
	err       error
}

// NewWriter creates a Writer that does not fold long lines.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, foldWidth: NoFolding}
}

// WithFoldWidth folds lines longer than width. Zero selects the RFC 2849
// default of 76 columns.
func (w *Writer) WithFoldWidth(width int) *Writer {
	w.foldWidth = width
	return w
}

// Write emits one entry. After the first error every call is a no-op that
// returns it.
func (w *Writer) Write(e *Entry) error {
	return w.WriteAll([]*Entry{e})
}

// WriteAll emits entries in order.
func (w *Writer) WriteAll(entries []*Entry) error {
	if w.err != nil {
		return w.err
	}
	text, err := marshal(entries, w.foldWidth)
	if err != nil {
		w.err = err
		return err
	}
	_, w.err = io.WriteString(w.w, text)
	return w.err
}

// Marshal renders entries to unfolded LDIF text.
func Marshal(entries []*Entry) ([]byte, error) {
	text, err := marshal(entries, NoFolding)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func marshal(entries []*Entry, foldWidth int) (string, error) {
	doc := &goldif.LDIF{FoldWidth: foldWidth}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, &goldif.Entry{Entry: e.LDAP()})
	}
	return goldif.Marshal(doc)
}
