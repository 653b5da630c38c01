package ptr

// Ref returns a pointer to the value passed as argument. Useful for filling
// optional fields in literals.
func Ref[T any](v T) *T {
	return &v
}
