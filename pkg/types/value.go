package types

// Empty is the value of an omitted function argument, as in SUM(1,,2).
// It is distinct from zero, the empty string and nil.
type Empty struct{}

// EmptyValue is the singleton value used for omitted arguments.
var EmptyValue = Empty{}

// String implements fmt.Stringer.
func (Empty) String() string {
	return "EMPTY"
}

// IsEmpty reports whether v is the omitted-argument marker.
func IsEmpty(v interface{}) bool {
	_, ok := v.(Empty)
	return ok
}
