package service

import (
    "context"
    "errors"

    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/pkg/jwt"
)

var (
    ErrUserExists         = errors.New("user already exists")
    ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService 身份层：注册、登录签发令牌
type UserService interface {
    Register(ctx context.Context, username, password, nickname string) (*model.User, error)
    Login(ctx context.Context, username, password string) (string, *model.User, error)
    GetByID(ctx context.Context, userID int64) (*model.User, error)
}

type userService struct {
    userRepo repository.UserRepository
    jwtCfg   config.JWTConfig
}

func NewUserService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) UserService {
    return &userService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *userService) Register(ctx context.Context, username, password, nickname string) (*model.User, error) {
    if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
        return nil, ErrUserExists
    } else if !errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, err
    }

    hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return nil, err
    }
    user := &model.User{
        Username: username,
        Password: string(hash),
        Nickname: nickname,
        IsActive: true,
    }
    if err := s.userRepo.Create(ctx, user); err != nil {
        return nil, err
    }
    return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
    user, err := s.userRepo.GetByUsername(ctx, username)
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return "", nil, ErrInvalidCredentials
    }
    if err != nil {
        return "", nil, err
    }
    if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
        return "", nil, ErrInvalidCredentials
    }

    token, err := jwt.GenerateToken(s.jwtCfg.Secret, user.ID, s.jwtCfg.ExpireDuration())
    if err != nil {
        return "", nil, err
    }
    return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
    user, err := s.userRepo.GetByID(ctx, userID)
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, ErrUserNotFound
    }
    return user, err
}
