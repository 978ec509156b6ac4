package common

// Header names attached by the HTTP client to outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
)

// Keys of the credential store (metadata table).
const (
	MetadataKeyToken    = "token"
	MetadataKeyUserName = "username"
	MetadataKeySalt     = "salt"
)

// DefaultErrorMessage is reported when a failed response carries no message.
const DefaultErrorMessage = "Something went wrong"
