package dto

// LoginForm is the shell's login submission.
type LoginForm struct {
	Login     string `json:"login" form:"login"`
	Password  string `json:"password" form:"password"`
	ReturnURL string `json:"returnUrl" form:"returnUrl"`
}

// LoginRequest is the dev API login payload.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
