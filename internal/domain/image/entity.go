package image

import "time"

// Image is the persisted gallery entity. URL and ThumbnailURL are locators
// under the storage backend that created the record: root-relative paths for
// local storage, absolute URLs for the remote host. Width and Height are
// always derived from the stored bytes, never taken from the client.
type Image struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Filename     string    `gorm:"column:filename;uniqueIndex" json:"filename"`
	URL          string    `gorm:"column:url" json:"url"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Tags         []string  `gorm:"column:tags;serializer:json" json:"tags"`
	Size         int64     `gorm:"column:size" json:"size"`
	Width        int       `gorm:"column:width" json:"width"`
	Height       int       `gorm:"column:height" json:"height"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Image) TableName() string { return "images" }
