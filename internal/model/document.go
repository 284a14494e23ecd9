package model

// Document is a rendered, self-contained map document (HTML markup).
// Documents are immutable and are the unit of caching and display.
type Document string

// Bytes returns the document markup as a byte slice.
func (d Document) Bytes() []byte {
	return []byte(d)
}

// Len returns the size of the document in bytes.
func (d Document) Len() int {
	return len(d)
}
