package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AuthLogoutResponse struct {
	Status string `json:"status"`
}

type AuthMeResponse struct {
	UserID       int64    `json:"userId"`
	LoginID      string   `json:"loginId"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}
