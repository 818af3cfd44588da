package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/chat"
)

type Repository interface {
	Create(account *UserAccount) error
	GetByID(id int64) (*UserAccount, error)
	GetByEmail(email string) (*UserAccount, error)
	List(limit, offset int) ([]*UserAccount, error)
	SetRole(id int64, role string) error
	SetActive(id int64, active bool) error
}

// ChatDirectory mirrors account changes to the messaging provider. Optional;
// nil disables the sync.
type ChatDirectory interface {
	SyncUser(job chat.SyncJob)
}

type Service struct {
	repo       Repository
	chatDir    ChatDirectory
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, chatDir ChatDirectory, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		chatDir:    chatDir,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateUser provisions a login. Admin-only; the route guard enforces the
// create-users capability.
func (s *Service) CreateUser(dto CreateUserDTO) (*UserAccount, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	account := &UserAccount{
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         dto.Role,
		EmployeeID:   dto.EmployeeID,
		IsActive:     true,
	}
	if err := s.repo.Create(account); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", account.ID, "role", account.Role)
	s.syncToChat(account)
	return account, nil
}

func (s *Service) GetUser(id int64) (*UserAccount, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListUsers(limit, offset int) ([]*UserAccount, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(limit, offset)
}

// SetRole changes an account's role directly, outside the promotion-request
// flow. Guarded by the manage-roles capability.
func (s *Service) SetRole(id int64, dto SetRoleDTO) (*UserAccount, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SetRole(id, dto.Role); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "user_id", id, "role", dto.Role)
	return s.repo.GetByID(id)
}

func (s *Service) SetActive(id int64, active bool) (*UserAccount, error) {
	if err := s.repo.SetActive(id, active); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *Service) syncToChat(account *UserAccount) {
	if s.chatDir == nil {
		return
	}
	s.chatDir.SyncUser(chat.SyncJob{
		UserID: account.ID,
		Name:   account.Email,
		Email:  account.Email,
	})
}
