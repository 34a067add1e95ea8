package domain

// User is a seeded record in the Users table. It is not a live game
// identity; participants are keyed by connection-scoped ids.
type User struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
