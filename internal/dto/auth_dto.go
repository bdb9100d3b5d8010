package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	Operator    OperatorResponse `json:"operator"`
}

type CreateOperatorRequest struct {
	Username  string `json:"username"   validate:"required,min=2,max=60"`
	FirstName string `json:"first_name" validate:"required,max=120"`
	LastName  string `json:"last_name"  validate:"max=120"`
	Password  string `json:"password"   validate:"required,min=4"`
}

type OperatorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
}
