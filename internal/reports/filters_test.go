package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// TestQueryOmitsIncompleteGeo verifies the geo triple is all-or-nothing.
func TestQueryOmitsIncompleteGeo(t *testing.T) {
	s := New(nil, nil)

	q := s.query(1, Filters{SortBy: DefaultSort, Geo: &GeoFilter{Lat: 28.6, Lng: 77.2}})
	assert.Empty(t, q.Get("lat"))
	assert.Empty(t, q.Get("lng"))
	assert.Empty(t, q.Get("radius"))

	q = s.query(3, Filters{
		Status: models.StatusPending,
		SortBy: DefaultSort,
		Geo:    &GeoFilter{Lat: 28.6, Lng: 77.2, Radius: 5},
	})
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "pending", q.Get("status"))
	assert.Equal(t, "28.6", q.Get("lat"))
	assert.Equal(t, "77.2", q.Get("lng"))
	assert.Equal(t, "5", q.Get("radius"))
}

func TestMergeKeepsUnpatchedFields(t *testing.T) {
	base := Filters{
		Status:    models.StatusPending,
		IssueType: models.IssueLighting,
		SortBy:    DefaultSort,
		Geo:       &GeoFilter{Lat: 1, Lng: 2, Radius: 3},
	}

	cond := models.ConditionPoor
	merged := merge(base, FilterPatch{Condition: &cond})
	assert.Equal(t, models.StatusPending, merged.Status)
	assert.Equal(t, models.ConditionPoor, merged.Condition)
	assert.Equal(t, models.IssueLighting, merged.IssueType)
	assert.NotNil(t, merged.Geo)

	// Clearing a filter is an explicit empty value, and a zero-radius
	// geo patch drops the geo filter.
	none := models.ReportStatus("")
	merged = merge(merged, FilterPatch{Status: &none, Geo: &GeoFilter{}})
	assert.Empty(t, merged.Status)
	assert.Nil(t, merged.Geo)
}
