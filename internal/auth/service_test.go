package auth

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock identity service for testing
type mockIdentity struct {
	byEmail       map[string]*user.User
	byID          map[int64]*user.User
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockIdentity() *mockIdentity {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	m := &mockIdentity{
		byEmail: map[string]*user.User{},
		byID:    map[int64]*user.User{},
		nextID:  100,
	}
	seed := []*user.User{
		{ID: 1, Email: "student@example.com", FirstName: "Sasmitha", LastName: "Perera", PasswordHash: string(hashedPassword), Permissions: []string{}},
		{ID: 2, Email: "admin@example.com", FirstName: "Nimali", LastName: "Silva", PasswordHash: string(hashedPassword), Permissions: []string{"category.create", "category.read", "category.update", "category.delete", "category.assign", "complain.read", "user.read", "user.update"}},
		{ID: 3, Email: "staff@example.com", FirstName: "Kasun", LastName: "Fernando", PasswordHash: string(hashedPassword), Permissions: []string{"complain.read", "complain.activity.create"}},
	}
	for _, u := range seed {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockIdentity) Create(dto user.CreateUserDTO) (*user.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if _, exists := m.byEmail[dto.Email]; exists {
		return nil, internal.NewConflictError("Email already in use", internal.ErrCodeEmailTaken)
	}
	m.nextID++
	u := &user.User{
		ID:        m.nextID,
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
	}
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return u, nil
}

func (m *mockIdentity) FindByEmail(email string) (*user.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.byEmail[email]; exists {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockIdentity) FindOneWithPermissions(id int64) (*user.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.byID[id]; exists {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockIdentity) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service      *Service
		mockUsers    *mockIdentity
		tokenGen     *JWTTokenGenerator
		secret       string        = "test-secret"
		tokenTTL     time.Duration = 15 * time.Minute
	)

	ginkgo.BeforeEach(func() {
		mockUsers = newMockIdentity()
		tokenGen = NewJWTTokenGenerator(secret, tokenTTL)
		service = NewService(mockUsers, tokenGen, slog.Default())
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create the user and issue a token for it", func() {
			dto := user.CreateUserDTO{
				FirstName: "Tharindu",
				LastName:  "Jayasinghe",
				Email:     "tharindu@example.com",
				Password:  "a_fine_password",
			}

			resp, err := service.Register(dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.AccessToken).ToNot(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(resp.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Email).To(gomega.Equal("tharindu@example.com"))
		})

		ginkgo.It("should propagate a duplicate email conflict", func() {
			dto := user.CreateUserDTO{
				FirstName: "Another",
				LastName:  "Admin",
				Email:     "admin@example.com",
				Password:  "a_fine_password",
			}

			resp, err := service.Register(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(resp).To(gomega.BeNil())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeEmailTaken))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a token and trimmed user view", func() {
				dto := LoginDTO{
					Email:    "admin@example.com",
					Password: "correct_password",
				}

				resp, err := service.Login(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.AccessToken).ToNot(gomega.BeEmpty())

				view, ok := resp.User.(LoginUserView)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(view.ID).To(gomega.Equal(int64(2)))
				gomega.Expect(view.Email).To(gomega.Equal("admin@example.com"))
			})

			ginkgo.It("should embed the user identity in the token claims", func() {
				dto := LoginDTO{
					Email:    "student@example.com",
					Password: "correct_password",
				}

				resp, err := service.Login(dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(resp.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
				gomega.Expect(claims.Email).To(gomega.Equal("student@example.com"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return the same error for an unknown email as for a wrong password", func() {
				unknownResp, unknownErr := service.Login(LoginDTO{
					Email:    "nonexistent@example.com",
					Password: "any_password",
				})
				wrongResp, wrongErr := service.Login(LoginDTO{
					Email:    "admin@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(unknownErr).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(wrongErr).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(unknownErr).To(gomega.Equal(wrongErr))
				gomega.Expect(unknownResp).To(gomega.BeNil())
				gomega.Expect(wrongResp).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should reject an empty email before touching the store", func() {
				resp, err := service.Login(LoginDTO{Email: "", Password: "password"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
				gomega.Expect(appErr.GetDetailedMessage()).To(gomega.ContainSubstring("email"))
				gomega.Expect(resp).To(gomega.BeNil())
			})

			ginkgo.It("should reject an empty password", func() {
				resp, err := service.Login(LoginDTO{Email: "admin@example.com", Password: ""})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(resp).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when the store fails", func() {
			ginkgo.It("should mask the failure as invalid credentials", func() {
				mockUsers.setError(errors.New("database error"))

				resp, err := service.Login(LoginDTO{
					Email:    "admin@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(resp).To(gomega.BeNil())
			})
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject an expired token", func() {
			expiredGen := NewJWTTokenGenerator(secret, -time.Minute)
			token, err := expiredGen.GenerateToken(2, "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrTokenExpired))
		})

		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("other-secret", tokenTTL)
			token, err := otherGen.GenerateToken(2, "admin@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})

		ginkgo.It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("ResolvePrincipal", func() {
		ginkgo.It("should load the current permission set from the store", func() {
			principal, err := service.ResolvePrincipal(3)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(principal.ID).To(gomega.Equal(int64(3)))
			gomega.Expect(principal.Permissions).To(gomega.ConsistOf("complain.read", "complain.activity.create"))
		})

		ginkgo.It("should reflect permission changes without a new token", func() {
			mockUsers.byID[1].Permissions = []string{"category.read"}

			principal, err := service.ResolvePrincipal(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(principal.Permissions).To(gomega.ConsistOf("category.read"))
		})

		ginkgo.It("should fail for an unknown user", func() {
			_, err := service.ResolvePrincipal(9999)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("permission checks", func() {
		ginkgo.It("should require every declared tag", func() {
			p := &internal.Principal{ID: 3, Permissions: []string{"complain.read"}}

			gomega.Expect(p.HasAllPermissions([]string{"complain.read"})).To(gomega.BeTrue())
			gomega.Expect(p.HasAllPermissions([]string{"complain.read", "complain.activity.create"})).To(gomega.BeFalse())
		})

		ginkgo.It("should pass an empty requirement for any authenticated caller", func() {
			p := &internal.Principal{ID: 1, Permissions: nil}

			gomega.Expect(p.HasAllPermissions(RequiredPermissions(OpComplainCreate))).To(gomega.BeTrue())
		})
	})
})
