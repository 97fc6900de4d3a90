package entities

import (
	"time"

	"gorm.io/gorm"
)

// DefaultSortOrder marks a category or site as unordered; it sorts last.
const DefaultSortOrder = 9999

// RootCategoryID is the parent id of top-level categories.
const RootCategoryID uint = 0

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:catelog;not null;size:255;uniqueIndex:idx_category_name_parent" json:"catelog"`
	ParentID  uint      `gorm:"column:parent_id;not null;default:0;uniqueIndex:idx_category_name_parent" json:"parent_id"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	IsPrivate bool      `gorm:"not null;default:false" json:"is_private"`
	CreatedAt time.Time `gorm:"column:create_time" json:"create_time"`
	UpdatedAt time.Time `gorm:"column:update_time" json:"update_time"`
}

func (Category) TableName() string {
	return "category"
}

type Site struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:512" json:"name"`
	URL          string         `gorm:"not null;index;size:2048" json:"url"`
	Logo         *string        `gorm:"size:2048" json:"logo"`
	Description  *string        `gorm:"type:text" json:"desc"`
	CategoryID   uint           `gorm:"column:catelog_id;not null;index" json:"catelog_id"`
	CategoryName string         `gorm:"column:catelog_name;size:255" json:"catelog_name"`
	SortOrder    int            `gorm:"not null" json:"sort_order"`
	IsPrivate    bool           `gorm:"not null;default:false" json:"is_private"`
	CreatedAt    time.Time      `gorm:"column:create_time" json:"create_time"`
	UpdatedAt    time.Time      `gorm:"column:update_time" json:"update_time"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Site) TableName() string {
	return "sites"
}
