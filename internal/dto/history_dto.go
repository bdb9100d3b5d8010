package dto

type ReceiptHistoryResponse struct {
	ID          string `json:"id"`
	ThaiName    string `json:"thai_name"`
	EnglishName string `json:"english_name"`
	BatchNo     string `json:"batch_no"`
	Exp         string `json:"exp"`
	Quantity    int    `json:"quantity"`
	ProcessedBy string `json:"processed_by"`
	CreatedAt   string `json:"created_at"`
}

type ReleaseHistoryResponse struct {
	ID          string `json:"id"`
	ThaiName    string `json:"thai_name"`
	EnglishName string `json:"english_name"`
	BatchNo     string `json:"batch_no"`
	Exp         string `json:"exp"`
	Quantity    int    `json:"quantity"`
	ProcessedBy string `json:"processed_by"`
	ReleasedTo  string `json:"released_to"`
	CreatedAt   string `json:"created_at"`
}

type HistoryFilter struct {
	BatchNo string `form:"batch_no"`
	Page    int    `form:"page,default=1"    validate:"min=1"`
	Limit   int    `form:"limit,default=100" validate:"min=1,max=500"`
}
