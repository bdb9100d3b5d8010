package repository

import (
	"context"

	"pdstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperatorRepository interface {
	Create(ctx context.Context, o *model.Operator) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	List(ctx context.Context) ([]model.Operator, error)
}

type operatorRepo struct{ db *gorm.DB }

func NewOperatorRepository(db *gorm.DB) OperatorRepository { return &operatorRepo{db: db} }

func (r *operatorRepo) Create(ctx context.Context, o *model.Operator) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *operatorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var o model.Operator
	err := r.db.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *operatorRepo) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var o model.Operator
	err := r.db.WithContext(ctx).Where("username = ? AND active = true", username).First(&o).Error
	return &o, err
}

func (r *operatorRepo) List(ctx context.Context) ([]model.Operator, error) {
	var operators []model.Operator
	err := r.db.WithContext(ctx).Where("active = true").Order("username ASC").Find(&operators).Error
	return operators, err
}
