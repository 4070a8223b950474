package dto

type AuthRequest struct {
	Passcode string `json:"passcode" validate:"required,notblank"`
}

type PasscodeQuery struct {
	Passcode string `query:"passcode" validate:"required,notblank"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListPasscodesResponse struct {
	Passcodes []string `json:"passcodes"`
}

type RegistrationResult struct {
	Passcode string
	Created  bool
}
