package storage

// RawDocument is a stored document as it sits in the database, before any
// decoding or normalization.
type RawDocument struct {
	ID  string
	Doc []byte
}
