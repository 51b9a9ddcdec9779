package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/repositories"
	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type MemberService struct {
	repo MemberStore
}

func NewMemberService(repo MemberStore) *MemberService {
	return &MemberService{repo: repo}
}

func (s *MemberService) Levels(ctx context.Context) (*models.MemberLevels, error) {
	levels, err := s.repo.Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load member levels: %w", err)
	}
	return levels, nil
}

func (s *MemberService) Me(ctx context.Context, userID uuid.UUID) (*models.UserInfo, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
