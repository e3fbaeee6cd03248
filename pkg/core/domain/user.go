package domain

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User is the locally persisted session user. There is no credential
// verification behind it; see services.AuthService.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Plan   string `json:"plan"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthForm is the sign-in/sign-up input.
type AuthForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
