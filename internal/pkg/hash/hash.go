package hash

// Hash computes a digest of a secret and later verifies a candidate against it.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
