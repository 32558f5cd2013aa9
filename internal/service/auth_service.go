package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/internal/repository"
	apperrors "internship-tracker/backend/pkg/errors"
	"internship-tracker/backend/pkg/jwt"
)

// AuthService staff authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RegisterAdvisor(ctx context.Context, req *dto.AdvisorRegisterRequest) (*dto.TokenResponse, error)
	// Logout revokes the access token until it would have expired anyway
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService; blacklist may be nil
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	var advisorID string
	if user.Role == model.RoleAdvisor {
		advisor, err := s.repo.Advisor.GetByUserID(ctx, user.UserID)
		switch {
		case err == nil:
			advisorID = advisor.AdvisorID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("get advisor profile failed", zap.String("user_id", user.UserID), zap.Error(err))
			return nil, err
		}
	}

	return s.issueTokens(user, advisorID)
}

func (s *authService) RegisterAdvisor(ctx context.Context, req *dto.AdvisorRegisterRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get user failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         model.RoleAdvisor,
		IsActive:     true,
	}
	advisor := &model.Advisor{
		FirstName:                    strings.TrimSpace(req.FirstName),
		LastName:                     strings.TrimSpace(req.LastName),
		Email:                        user.Email,
		PhoneNumber:                  strings.TrimSpace(req.PhoneNumber),
		NumberOfExpectedReports:      model.DefaultExpectedReports,
		ReportSubmissionIntervalDays: model.DefaultReportIntervalDays,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return ErrUsernameTaken
			}
			return err
		}
		advisor.UserID = strPtr(user.UserID)
		return tx.Advisor.Create(ctx, advisor)
	})
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.logger.Error("register advisor failed", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("advisor registered", zap.String("username", username), zap.String("advisor_id", advisor.AdvisorID))
	return s.issueTokens(user, advisor.AdvisorID)
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issueTokens(user *model.User, advisorID string) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, advisorID)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, advisorID)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:        user.UserID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			AdvisorID: advisorID,
		},
	}, nil
}
