// internal/domain/models/region.go
package models

import "time"

// Region is a UK region keyed by its region code. SubRegions maps a local
// authority code to its display name; keys are unique within a region.
type Region struct {
	Code        string            `bson:"_id" json:"code"`
	Name        string            `bson:"name" json:"name"`
	NameCI      string            `bson:"name_ci" json:"-"`
	SubRegions  map[string]string `bson:"sub_regions" json:"subRegions"`
	ImportBatch string            `bson:"import_batch,omitempty" json:"-"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updatedAt"`
}
