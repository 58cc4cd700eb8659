package repository

import (
	"context"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type SliderRepository struct {
	db DBTX
}

func NewSliderRepository(db DBTX) *SliderRepository {
	return &SliderRepository{db: db}
}

func (r *SliderRepository) List(ctx context.Context) ([]models.Slider, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, image, description, position FROM sliders ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sliders := make([]models.Slider, 0)
	for rows.Next() {
		var slider models.Slider
		if err := rows.Scan(&slider.ID, &slider.Title, &slider.Image, &slider.Description, &slider.Position); err != nil {
			return nil, err
		}
		sliders = append(sliders, slider)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sliders, nil
}
