package sites

import (
	"time"

	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/entities"
)

const (
	insertSQL = `INSERT INTO sites (name, url, logo, description, catelog_id, catelog_name, sort_order, is_private, create_time, update_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateByURLSQL = `UPDATE sites SET name = ?, logo = ?, description = ?, catelog_id = ?, catelog_name = ?, sort_order = ?, is_private = ?, update_time = ?
WHERE url = ? AND deleted_at IS NULL`
)

// InsertStatement builds the insert for a new site.
func InsertStatement(site entities.Site, now time.Time) batch.Statement {
	return batch.Statement{
		SQL: insertSQL,
		Args: []any{
			site.Name, site.URL, nullable(site.Logo), nullable(site.Description),
			site.CategoryID, site.CategoryName, site.SortOrder, site.IsPrivate, now, now,
		},
	}
}

// UpdateByURLStatement rewrites the live site with site.URL. The id and
// creation time are left untouched.
func UpdateByURLStatement(site entities.Site, now time.Time) batch.Statement {
	return batch.Statement{
		SQL: updateByURLSQL,
		Args: []any{
			site.Name, nullable(site.Logo), nullable(site.Description),
			site.CategoryID, site.CategoryName, site.SortOrder, site.IsPrivate, now,
			site.URL,
		},
	}
}

// SoftDeleteStatements marks the sites with the given ids as deleted.
func SoftDeleteStatements(ids []uint, now time.Time, chunkSize int) []batch.Statement {
	return batch.BuildIn(
		"UPDATE sites SET deleted_at = ? WHERE deleted_at IS NULL AND id IN (%s)",
		[]any{now}, ids, chunkSize,
	)
}

// MoveStatements moves the sites with the given ids into cat. Sites moved
// into a private category become private.
func MoveStatements(ids []uint, cat entities.Category, now time.Time, chunkSize int) []batch.Statement {
	query := "UPDATE sites SET catelog_id = ?, catelog_name = ?, update_time = ?"
	if cat.IsPrivate {
		query += ", is_private = 1"
	}
	query += " WHERE deleted_at IS NULL AND id IN (%s)"
	return batch.BuildIn(query, []any{cat.ID, cat.Name, now}, ids, chunkSize)
}

// PrivacyStatements sets the privacy flag of the sites with the given ids.
func PrivacyStatements(ids []uint, private bool, now time.Time, chunkSize int) []batch.Statement {
	return batch.BuildIn(
		"UPDATE sites SET is_private = ?, update_time = ? WHERE deleted_at IS NULL AND id IN (%s)",
		[]any{private, now}, ids, chunkSize,
	)
}

// SyncCategoryNameStatement copies a renamed category's name onto its sites.
func SyncCategoryNameStatement(categoryID uint, name string) batch.Statement {
	return batch.Statement{
		SQL:  "UPDATE sites SET catelog_name = ? WHERE catelog_id = ?",
		Args: []any{name, categoryID},
	}
}

// CascadePrivacyStatement forces every site of a category private.
func CascadePrivacyStatement(categoryID uint) batch.Statement {
	return batch.Statement{
		SQL:  "UPDATE sites SET is_private = 1 WHERE catelog_id = ?",
		Args: []any{categoryID},
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
