// internal/domain/models/school.go
package models

import "time"

// School is one establishment in the schools collection. The URN is used
// as the document id so repeated imports replace rather than duplicate.
type School struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	NameCI      string    `bson:"name_ci" json:"-"` // ← always stored
	Type        string    `bson:"type" json:"type"`
	TypeCI      string    `bson:"type_ci" json:"-"` // ← always stored
	RegionCode  string    `bson:"region_code" json:"regionCode"`
	LACode      string    `bson:"la_code" json:"laCode"`
	Postcode    string    `bson:"postcode" json:"postcode"`
	Location    *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	ImportBatch string    `bson:"import_batch,omitempty" json:"-"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Lat returns the latitude of the point.
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Lng returns the longitude of the point.
func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }
