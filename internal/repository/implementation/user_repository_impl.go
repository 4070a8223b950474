package implementation

import (
	"context"
	"errors"
	"time"

	"fubot-be/internal/entity"
	"fubot-be/internal/mapper"
	"fubot-be/internal/model"
	"fubot-be/internal/repository/contract"
	"fubot-be/internal/repository/scope"
	"fubot-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) Upsert(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "passcode"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_login", "updated_at"}),
		}).
		Create(modelUser).Error
	if err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var modelUsers []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelUsers).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelUsers), nil
}

func (r *UserRepositoryImpl) ListPasscodes(ctx context.Context) ([]string, error) {
	passcodes := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Scopes(scope.OrderByCreatedAsc).
		Pluck("passcode", &passcodes).Error
	if err != nil {
		return nil, err
	}
	return passcodes, nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, passcode string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("passcode = ?", passcode).
		Update("last_login", at).Error
}

func (r *UserRepositoryImpl) UpdateContextSummary(ctx context.Context, passcode string, summary string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("passcode = ?", passcode).
		Update("context_summary", summary)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepositoryImpl) DeleteByPasscode(ctx context.Context, passcode string) (int64, error) {
	res := r.db.WithContext(ctx).Where("passcode = ?", passcode).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
