package ports

// SampleSource provides read-only access to named numeric samples held
// in an external store. Shells resolve user-facing column names through
// it without knowing the storage format.
type SampleSource interface {
	// Columns lists the addressable column names in source order.
	Columns() ([]string, error)

	// Sample reads the numeric sample stored under the named column.
	// Blank cells are skipped; a non-numeric cell fails the read.
	Sample(name string) ([]float64, error)
}
