// internal/app/features/schools/types.go
package schools

import "github.com/dalemusser/schoolfinder/internal/domain/models"

// listResponse is the JSON body of GET /schools.
type listResponse struct {
	Items      []models.School `json:"items"`
	Total      int64           `json:"total"`
	PageSize   int             `json:"pageSize"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}
