package users

// User is an account placeholder. Password holds a bcrypt hash, never the
// plain text, and is not serialized.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
