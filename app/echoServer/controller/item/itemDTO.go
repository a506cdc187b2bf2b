package item

type CreateItemReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"request_id" validate:"omitempty,gt=0"`
}

type UpdateItemReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CommentReq struct {
	Text string `json:"text" validate:"required"`
}
