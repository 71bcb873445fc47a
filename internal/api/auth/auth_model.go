package auth

import "errors"

// Define typed context keys
type contextKey string

const UserIDKey contextKey = "userID"
const UsernameKey contextKey = "username"

const (
	maxUsernameLength = 64
	minPasswordLength = 4
	maxPasswordBytes  = 72 // bcrypt input limit
	tokenTypeBearer   = "bearer"
)

// errInvalidCredentials is returned by Login for unknown users and wrong passwords alike.
var errInvalidCredentials = errors.New("invalid credentials")
