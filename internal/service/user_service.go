package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"user-account-api/internal/core/cache"
	"user-account-api/internal/domain"
	"user-account-api/pkg/utils"
)

type UserInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
}

type UserService struct {
	repo    domain.UserRepository
	cache   *cache.Cache // 可为 nil（未开启 redis）
	userTTL time.Duration
	log     *zap.Logger
}

func NewUserService(repo domain.UserRepository, c *cache.Cache, userTTL time.Duration, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	if userTTL <= 0 {
		userTTL = 5 * time.Minute
	}
	return &UserService{repo: repo, cache: c, userTTL: userTTL, log: l}
}

func emailKey(email string) string { return "user:email:" + email }

// normalize 只做 trim；除了非空检查不做其他清洗
func (in *UserInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

func (in *UserInput) validate() error {
	if in.Email == "" || in.Username == "" || in.FirstName == "" || in.LastName == "" {
		return domain.ErrValidation
	}
	return nil
}

// resolveConflict 冲突判定：email 命中优先于 username（同一行两者都撞时报 email）
func (s *UserService) resolveConflict(ctx context.Context, email, username string, excludeID *uint) error {
	hit, err := s.repo.FindConflict(ctx, email, username, excludeID)
	if err != nil {
		return err
	}
	if hit == nil {
		return nil
	}
	if hit.Email == email {
		return domain.ErrEmailInUse
	}
	return domain.ErrUsernameTaken
}

// Create 新建用户：非空校验 → 冲突预检 → 生成随机口令入库
// 预检与写入之间存在并发窗口，唯一索引违例会被重新判定为冲突错误
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.resolveConflict(ctx, in.Email, in.Username, nil); err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  utils.RandomPassword(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if isDupKey(err) {
			// 并发兜底：唯一冲突 → 再跑一次判定拿到具体字段
			if cerr := s.resolveConflict(ctx, in.Email, in.Username, nil); cerr != nil {
				return nil, cerr
			}
			return nil, domain.ErrEmailInUse
		}
		s.log.Error("create user", zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, u.Email)
	s.log.Info("user created", zap.Uint("id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Edit 全量覆盖四个可编辑字段（不支持部分更新）
func (s *UserService) Edit(ctx context.Context, id uint, in UserInput) (*domain.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}

	// 排除自己：改回自己当前的 email/username 不算冲突
	if err := s.resolveConflict(ctx, in.Email, in.Username, &id); err != nil {
		return nil, err
	}

	oldEmail := u.Email
	u.Email = in.Email
	u.Username = in.Username
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	if err := s.repo.Update(ctx, u); err != nil {
		if isDupKey(err) {
			if cerr := s.resolveConflict(ctx, in.Email, in.Username, &id); cerr != nil {
				return nil, cerr
			}
			return nil, domain.ErrEmailInUse
		}
		s.log.Error("edit user", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, oldEmail, u.Email)
	return u, nil
}

// GetByEmail 按 email 精确查询；开启 redis 时走读穿透缓存
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	if s.cache != nil {
		u, err = cache.GetOrLoadJSON[domain.User](s.cache, ctx, emailKey(email), s.userTTL,
			func(ctx context.Context) (*domain.User, error) {
				return s.repo.FindByEmail(ctx, email)
			})
	} else {
		u, err = s.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) invalidate(ctx context.Context, emails ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != "" {
			keys = append(keys, emailKey(e))
		}
	}
	s.cache.Del(ctx, keys...)
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动/版本差异
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
