package api

// ErrorResponse 全域錯誤響應模型；Fields 只在欄位驗證失敗時出現
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string            `json:"message" example:"validation failed"`
	Fields  map[string]string `json:"fields,omitempty"`
}
