package model

// User is a registered account. Password holds the stored credential,
// which is a bcrypt hash for every account created by this program.
type User struct {
	ID       string
	Username string
	Password string
}
