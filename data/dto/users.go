package dto

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequestBody defines a request body for UpdateUser service.
type UpdateUserRequestBody struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// ResetUserPasswordRequestBody defines a request body for ResetUserPassword service.
type ResetUserPasswordRequestBody struct {
	Password       string `json:"password"`
	TokenPlaintext string `json:"token"`
}
