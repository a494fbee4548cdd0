package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ramishka-devx/inquiry-system-api/internal/complaint"
	complaintPostgres "github.com/ramishka-devx/inquiry-system-api/internal/complaint/postgres"
)

func TestComplaintPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Complaint Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteUser struct {
	UserID    int64  `gorm:"column:user_id;primaryKey"`
	Email     string `gorm:"column:email;uniqueIndex;not null"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	RoleID    int64  `gorm:"column:role_id"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteCategory struct {
	CategoryID int64  `gorm:"column:category_id;primaryKey"`
	Title      string `gorm:"column:title;not null"`
}

func (SQLiteCategory) TableName() string { return "categories" }

type SQLiteComplain struct {
	ComplainID  int64     `gorm:"column:complain_id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null"`
	CategoryID  int64     `gorm:"column:category_id;not null"`
	Subject     string    `gorm:"column:subject;not null"`
	Description string    `gorm:"column:description"`
	Priority    string    `gorm:"column:priority"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SQLiteComplain) TableName() string { return "complains" }

type SQLiteActivity struct {
	ActivityID  int64     `gorm:"column:activity_id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null"`
	ComplainID  int64     `gorm:"column:complain_id;not null"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SQLiteActivity) TableName() string { return "activities" }

type SQLiteCategoryIncharge struct {
	ID         int64 `gorm:"column:id;primaryKey"`
	RoleID     int64 `gorm:"column:role_id;not null"`
	CategoryID int64 `gorm:"column:category_id;not null"`
}

func (SQLiteCategoryIncharge) TableName() string { return "category_incharge" }

var _ = Describe("Complaint PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo complaint.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteCategory{}, &SQLiteComplain{}, &SQLiteActivity{}, &SQLiteCategoryIncharge{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&SQLiteUser{UserID: 1, Email: "student@example.com", FirstName: "Sasmitha", LastName: "Perera", RoleID: 2}).Error).To(Succeed())
		Expect(db.Create(&SQLiteUser{UserID: 2, Email: "staff@example.com", FirstName: "Kasun", LastName: "Fernando", RoleID: 3}).Error).To(Succeed())
		Expect(db.Create(&SQLiteCategory{CategoryID: 1, Title: "Hostel Maintenance"}).Error).To(Succeed())

		repo = complaintPostgres.NewRepository(db)
	})

	fileComplain := func(userID int64, subject, priority string) *complaint.Complaint {
		c := &complaint.Complaint{
			UserID:      userID,
			CategoryID:  1,
			Subject:     subject,
			Description: "water everywhere",
			Priority:    priority,
		}
		Expect(repo.Insert(c)).To(Succeed())
		return c
	}

	Describe("GetDetail", func() {
		It("should join the submitter name and category title", func() {
			c := fileComplain(1, "Leaking tap", complaint.PriorityHigh)

			detail, err := repo.GetDetail(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Subject).To(Equal("Leaking tap"))
			Expect(detail.FirstName).To(Equal("Sasmitha"))
			Expect(detail.LastName).To(Equal("Perera"))
			Expect(detail.Category).To(Equal("Hostel Maintenance"))
		})

		It("should report not found for a missing row", func() {
			_, err := repo.GetDetail(9999)
			Expect(err).To(Equal(complaint.ErrNotFound))
		})
	})

	Describe("activities", func() {
		It("should return activities in insertion order", func() {
			c := fileComplain(1, "Leaking tap", complaint.PriorityHigh)

			first := &complaint.Activity{UserID: 2, ComplainID: c.ID, Description: "scheduled", Status: complaint.StatusPending}
			Expect(repo.InsertActivity(first)).To(Succeed())
			second := &complaint.Activity{UserID: 2, ComplainID: c.ID, Description: "in progress", Status: complaint.StatusProgress}
			Expect(repo.InsertActivity(second)).To(Succeed())

			activities, err := repo.GetActivities(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(activities).To(HaveLen(2))
			Expect(activities[0].ID).To(Equal(first.ID))
			Expect(activities[0].Status).To(Equal(complaint.StatusPending))
			Expect(activities[1].ID).To(Equal(second.ID))
		})
	})

	Describe("HasCategoryOwnership", func() {
		It("should link users to categories through their role", func() {
			ok, err := repo.HasCategoryOwnership(2, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			Expect(db.Create(&SQLiteCategoryIncharge{RoleID: 3, CategoryID: 1}).Error).To(Succeed())

			ok, err = repo.HasCategoryOwnership(2, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			// user 1 holds a different role
			ok, err = repo.HasCategoryOwnership(1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			fileComplain(1, "Leaking tap", complaint.PriorityHigh)
			fileComplain(1, "Broken window", complaint.PriorityNormal)
			fileComplain(2, "Flickering lights", complaint.PriorityLow)
		})

		It("should match subject, description and priority", func() {
			results, err := repo.Search("leaking", nil, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))

			results, err = repo.Search("high", nil, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("should restrict to the owner when filtered", func() {
			owner := int64(1)
			results, err := repo.Search("", &owner, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			count, err := repo.CountSearch("", &owner)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})
})
