package postgres

import (
	"testing"
	"time"

	"doceria/internal/core/entity"
	"doceria/internal/core/id"

	"github.com/stretchr/testify/assert"
)

type mockCatalog struct {
	entity.Base
	Name      string `db:"name" json:"name"`
	Unit      string `db:"unit" json:"unit"`
	Internal  string `db:"-" json:"-"`
	Untracked string
}

func TestExtractDBColumns_EmbeddedBase(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "name", "unit",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap_EmbeddedBase(t *testing.T) {
	now := time.Now().UTC()
	cat := mockCatalog{
		Base: entity.Base{
			ID:        id.New(),
			Version:   5,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      "farinha de trigo",
		Unit:      "kg",
		Internal:  "skipped",
		Untracked: "skipped",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, now, m["updated_at"])
	assert.Equal(t, "farinha de trigo", m["name"])
	assert.Equal(t, "kg", m["unit"])

	assert.NotContains(t, m, "-")
	assert.Len(t, m, 6)
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &mockCatalog{Base: entity.NewBase(), Name: "acucar", Unit: "kg"}

	m := StructToMap(cat)

	assert.Equal(t, "acucar", m["name"])
	assert.Equal(t, cat.ID, m["id"])
}
