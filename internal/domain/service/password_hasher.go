package service

// PasswordHasher abstracts credential hashing for the local credential store.
// Remote password checks happen inside the remote auth capability; this
// interface only backs the optional local-mode verification.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a stored hash.
	Check(password, hash string) bool
}
