package wire

const ServiceName = "sessionkeeper.v1.SessionService"

const (
	MethodCreateAccount  = "/" + ServiceName + "/CreateAccount"
	MethodSignIn         = "/" + ServiceName + "/SignIn"
	MethodCreateSession  = "/" + ServiceName + "/CreateSession"
	MethodRefreshSession = "/" + ServiceName + "/RefreshSession"
	MethodGetProduct     = "/" + ServiceName + "/GetProduct"
	MethodPing           = "/" + ServiceName + "/Ping"
)

// AuthorizationKey is the metadata key carrying "Bearer <token>".
const AuthorizationKey = "authorization"

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityTokenResponse struct {
	IDToken string `json:"id_token"`
}

// SessionRequest is empty; the bearer token travels in metadata.
type SessionRequest struct{}

type SessionResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ProductRequest struct {
	ID string `json:"id"`
}

type ProductResponse struct {
	Title        string  `json:"title"`
	CurrentPrice float64 `json:"current_price"`
	Image        string  `json:"image"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
