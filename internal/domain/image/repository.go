package image

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id int64) (*Image, error)
	List(ctx context.Context) ([]*Image, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, img *Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Image, error) {
	var img Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *repository) List(ctx context.Context) ([]*Image, error) {
	images := make([]*Image, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&images).Error
	return images, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Image{})
	if res.Error != nil {
		return res.Error
	}
	// A concurrent delete may have won the race after our lookup.
	if res.RowsAffected == 0 {
		return ErrImageNotFound
	}
	return nil
}
