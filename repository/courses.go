package repository

import (
	"context"

	"gorm.io/gorm"

	"agenda-backend/models"
)

type CourseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

func (r *CourseRepo) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, translate(err)
}

func (r *CourseRepo) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CourseRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CourseRepo) UpdateCourse(ctx context.Context, c *models.Course) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *CourseRepo) DeleteCourse(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Course{}, id))
}
