package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/psds-microservice/helpdesk-service/internal/errs"
	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/notify"
)

type UserService struct {
	db    *gorm.DB
	cache *notify.Cache
}

func NewUserService(db *gorm.DB, cache *notify.Cache) *UserService {
	return &UserService{db: db, cache: cache}
}

// Register создаёт пользователя. Email уникален: повторная регистрация
// завершается errs.ErrEmailTaken независимо от остальных полей.
func (s *UserService) Register(ctx context.Context, name, email string, role model.Role) (*model.User, error) {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, errs.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u := &model.User{Name: name, Email: email, Role: role}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrEmailTaken
		}
		return nil, err
	}
	s.cache.CacheUserAsync(u)
	return u, nil
}

// Login — поиск по email без проверки каких-либо секретов: паролей и
// сессий в этом сервисе нет.
func (s *UserService) Login(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return &u, nil
}

// Current возвращает первого зарегистрированного пользователя —
// заглушка вместо настоящей сессии.
func (s *UserService) Current(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Order("id_usuario").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
