package user_test

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/hr-platform/internal/chat"
	"github.com/peopleops/hr-platform/internal/roles"
	"github.com/peopleops/hr-platform/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockUserRepo struct {
	accounts map[int64]*user.UserAccount
	nextID   int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{accounts: make(map[int64]*user.UserAccount), nextID: 1}
}

func (m *mockUserRepo) Create(account *user.UserAccount) error {
	account.ID = m.nextID
	m.nextID++
	m.accounts[account.ID] = account
	return nil
}

func (m *mockUserRepo) GetByID(id int64) (*user.UserAccount, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return account, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*user.UserAccount, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) List(limit, offset int) ([]*user.UserAccount, error) {
	var out []*user.UserAccount
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockUserRepo) SetRole(id int64, role string) error {
	a, ok := m.accounts[id]
	if !ok {
		return user.ErrUserNotFound
	}
	a.Role = role
	return nil
}

func (m *mockUserRepo) SetActive(id int64, active bool) error {
	a, ok := m.accounts[id]
	if !ok {
		return user.ErrUserNotFound
	}
	a.IsActive = active
	return nil
}

type mockChatDirectory struct {
	synced []chat.SyncJob
}

func (m *mockChatDirectory) SyncUser(job chat.SyncJob) {
	m.synced = append(m.synced, job)
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepo
		chatDir *mockChatDirectory
		service *user.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepo()
		chatDir = &mockChatDirectory{}
		service = user.NewService(repo, chatDir, bcrypt.MinCost, slog.Default())
	})

	Describe("CreateUser", func() {
		It("hashes the password and stores an active account", func() {
			account, err := service.CreateUser(user.CreateUserDTO{
				Email:    "Ana@Example.com",
				Password: "s3cret-pass",
				Role:     roles.RoleEmployee,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(account.Email).To(Equal("ana@example.com"))
			Expect(account.IsActive).To(BeTrue())
			Expect(bcrypt.CompareHashAndPassword(
				[]byte(account.PasswordHash), []byte("s3cret-pass"))).To(Succeed())
		})

		It("mirrors the new account to the chat directory", func() {
			account, err := service.CreateUser(user.CreateUserDTO{
				Email:    "ana@example.com",
				Password: "s3cret-pass",
				Role:     roles.RoleEmployee,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(chatDir.synced).To(HaveLen(1))
			Expect(chatDir.synced[0].UserID).To(Equal(account.ID))
		})

		It("rejects a duplicate email", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "ana@example.com", Password: "s3cret-pass", Role: roles.RoleEmployee,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(user.CreateUserDTO{
				Email: "ana@example.com", Password: "other-pass", Role: roles.RoleHR,
			})

			Expect(err).To(MatchError(user.ErrEmailTaken))
		})

		It("rejects an unknown role", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "bo@example.com", Password: "s3cret-pass", Role: "superuser",
			})

			Expect(err).To(HaveOccurred())
		})

		It("rejects a short password", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "bo@example.com", Password: "short", Role: roles.RoleEmployee,
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetRole", func() {
		It("moves the account to the new role", func() {
			account, _ := service.CreateUser(user.CreateUserDTO{
				Email: "ana@example.com", Password: "s3cret-pass", Role: roles.RoleEmployee,
			})

			updated, err := service.SetRole(account.ID, user.SetRoleDTO{Role: roles.RoleManager})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Role).To(Equal(roles.RoleManager))
		})

		It("rejects an unknown role without writing", func() {
			account, _ := service.CreateUser(user.CreateUserDTO{
				Email: "ana@example.com", Password: "s3cret-pass", Role: roles.RoleEmployee,
			})

			_, err := service.SetRole(account.ID, user.SetRoleDTO{Role: "root"})

			Expect(err).To(HaveOccurred())
			Expect(repo.accounts[account.ID].Role).To(Equal(roles.RoleEmployee))
		})
	})
})
