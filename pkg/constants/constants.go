package constants

type contextKey string

// gin context keys
const (
	Token    = "token"
	Username = "username"
)

const TokenKey contextKey = "token"
