package validation

type Signup struct {
	UserName string `json:"userName" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type Login struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}
