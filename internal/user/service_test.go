package user_test

import (
	"log/slog"
	"sort"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	users       map[int64]*user.User
	permissions map[int64][]string
	nextID      int64
	updateCalls int
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:       make(map[int64]*user.User),
		permissions: make(map[int64][]string),
	}
}

func (m *MockRepository) Insert(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	u.ID = m.nextID
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *MockRepository) GetByID(id int64) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *MockRepository) EmailExists(email string, excludingID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != excludingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) GetRolePermissions(roleID int64) ([]string, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.permissions[roleID], nil
}

func (m *MockRepository) Update(id int64, patch user.Patch) error {
	if m.shouldFail {
		return m.failError
	}
	m.updateCalls++
	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return nil
}

func (m *MockRepository) Search(search string, limit, offset int) ([]*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	matched := m.matching(search)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *MockRepository) CountSearch(search string) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return int64(len(m.matching(search))), nil
}

func (m *MockRepository) matching(search string) []*user.User {
	needle := strings.ToLower(search)
	var matched []*user.User
	for _, u := range m.users {
		haystack := strings.ToLower(u.Email + " " + u.FirstName + " " + u.LastName)
		if strings.Contains(haystack, needle) {
			copied := *u
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *MockRepository
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = user.NewService(mockRepo, bcrypt.MinCost, slog.Default())
	})

	register := func(email string) *user.User {
		u, err := service.Create(user.CreateUserDTO{
			FirstName: "Sasmitha",
			LastName:  "Perera",
			Email:     email,
			Password:  "a_fine_password",
			Phone:     "0711234567",
			RoleID:    1,
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	Describe("Create", func() {
		It("should return the user without hash or timestamps", func() {
			u := register("sasmitha@example.com")

			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Email).To(Equal("sasmitha@example.com"))
			Expect(u.PasswordHash).To(BeEmpty())
			Expect(u.CreatedAt).To(BeNil())
		})

		It("should store a bcrypt hash, not the raw password", func() {
			register("sasmitha@example.com")

			stored, err := mockRepo.GetByEmail("sasmitha@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).NotTo(Equal("a_fine_password"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("a_fine_password"))).To(Succeed())
		})

		It("should conflict on a duplicate email", func() {
			register("sasmitha@example.com")

			_, err := service.Create(user.CreateUserDTO{
				FirstName: "Other",
				LastName:  "Person",
				Email:     "sasmitha@example.com",
				Password:  "another_password",
				Phone:     "0719999999",
				RoleID:    1,
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should reject a malformed email", func() {
			_, err := service.Create(user.CreateUserDTO{
				FirstName: "Sasmitha",
				LastName:  "Perera",
				Email:     "not-an-email",
				Password:  "a_fine_password",
				Phone:     "0711234567",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("FindOneWithPermissions", func() {
		It("should resolve tags through the role", func() {
			u := register("sasmitha@example.com")
			mockRepo.permissions[1] = []string{"complain.read", "category.read"}

			got, err := service.FindOneWithPermissions(u.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Permissions).To(ConsistOf("complain.read", "category.read"))
		})

		It("should return an empty set for a role with no grants", func() {
			u := register("sasmitha@example.com")

			got, err := service.FindOneWithPermissions(u.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Permissions).NotTo(BeNil())
			Expect(got.Permissions).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("should return the current record without a write when nothing is supplied", func() {
			u := register("sasmitha@example.com")

			updated, err := service.Update(u.ID, user.UpdateUserDTO{})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Email).To(Equal("sasmitha@example.com"))
			Expect(mockRepo.updateCalls).To(Equal(0))
		})

		It("should conflict when changing to another user's email", func() {
			register("sasmitha@example.com")
			other := register("kasun@example.com")

			email := "sasmitha@example.com"
			_, err := service.Update(other.ID, user.UpdateUserDTO{Email: &email})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should allow keeping one's own email", func() {
			u := register("sasmitha@example.com")

			email := "sasmitha@example.com"
			firstName := "Sas"
			updated, err := service.Update(u.ID, user.UpdateUserDTO{Email: &email, FirstName: &firstName})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FirstName).To(Equal("Sas"))
		})

		It("should re-hash a supplied password", func() {
			u := register("sasmitha@example.com")

			password := "brand_new_password"
			_, err := service.Update(u.ID, user.UpdateUserDTO{Password: &password})
			Expect(err).NotTo(HaveOccurred())

			stored, err := mockRepo.GetByEmail("sasmitha@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password))).To(Succeed())
		})
	})

	Describe("FindAll", func() {
		It("should page and report totals", func() {
			for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
				register(email)
			}

			page, err := service.FindAll(user.ListQuery{Page: 1, Limit: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalPages).To(Equal(2))
			Expect(page.Users).To(HaveLen(2))
			for _, u := range page.Users {
				Expect(u.PasswordHash).To(BeEmpty())
			}
		})

		It("should report not found for an empty result page", func() {
			register("sasmitha@example.com")

			_, err := service.FindAll(user.ListQuery{Search: "zzz", Page: 1, Limit: 10})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})
})
