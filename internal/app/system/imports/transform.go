// internal/app/system/imports/transform.go
package imports

import (
	"math"
	"strconv"

	"github.com/dalemusser/schoolfinder/internal/app/system/csvutil"
	"github.com/dalemusser/schoolfinder/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// TransformRegions folds region/local-authority rows into one record per
// region code, in order of first appearance.
//
// The first row seen for a region fixes its name; later rows for the same
// region only add to SubRegions. A repeated LA code within a region
// overwrites the earlier name.
func TransformRegions(rows []csvutil.RegionRow) []models.Region {
	out := make([]models.Region, 0)
	index := make(map[string]int) // region code -> position in out

	for _, row := range rows {
		i, seen := index[row.RegionCode]
		if !seen {
			i = len(out)
			index[row.RegionCode] = i
			out = append(out, models.Region{
				Code:       row.RegionCode,
				Name:       row.RegionName,
				NameCI:     text.Fold(row.RegionName),
				SubRegions: make(map[string]string),
			})
		}
		out[i].SubRegions[row.LACode] = row.LAName
	}

	return out
}

// TransformSchools produces one school per URN, in order of first
// appearance. A repeated URN replaces the earlier row's values.
// Location is set only when both coordinates parse and are in range.
func TransformSchools(rows []csvutil.SchoolRow) []models.School {
	out := make([]models.School, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		s := models.School{
			ID:         row.URN,
			Name:       row.Name,
			NameCI:     text.Fold(row.Name),
			Type:       row.Type,
			TypeCI:     text.Fold(row.Type),
			RegionCode: row.RegionCode,
			LACode:     row.LACode,
			Postcode:   row.Postcode,
			Location:   point(row.Latitude, row.Longitude),
		}

		if i, seen := index[row.URN]; seen {
			out[i] = s
			continue
		}
		index[row.URN] = len(out)
		out = append(out, s)
	}

	return out
}

func point(latText, lngText string) *models.GeoPoint {
	if latText == "" || lngText == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngText, 64)
	if err != nil {
		return nil
	}
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return models.NewGeoPoint(lat, lng)
}
