package dto

type PaginationResponse struct {
	Total       uint64      `json:"total"`
	PerPage     int         `json:"per_page"`
	CurrentPage int         `json:"current_page"`
	Items       interface{} `json:"items"`
}

func NewPaginationResponse(filter Filter, total int64, items interface{}) PaginationResponse {
	if total < 0 {
		total = 0
	}

	return PaginationResponse{
		Total:       uint64(total),
		PerPage:     filter.PageSize,
		CurrentPage: filter.Page,
		Items:       items,
	}
}
