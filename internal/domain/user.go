package domain

import "time"

// User represents a registered account. Username is the primary key; the
// Password field always holds a salted one-way digest, never the plaintext.
type User struct {
	Username  string
	Password  string
	CreatedAt time.Time
}
