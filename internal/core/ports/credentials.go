package ports

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare returns false with a nil error on mismatch; an error means the
	// stored hash could not be read.
	Compare(plain, hash string) (bool, error)
}

// TokenIssuer mints and verifies bearer tokens bound to an email.
type TokenIssuer interface {
	Issue(email string) (string, error)
	// Verify proves the token was minted by this server and returns its email.
	Verify(token string) (string, error)
}
