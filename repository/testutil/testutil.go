// Package testutil provides sqlite-backed stores and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"learnhub/models"
	"learnhub/repository/gormstore"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory sqlite database that lives as long as the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	// one connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Store returns a migrated gorm store over DB(tb).
func Store(tb testing.TB) *gormstore.Store {
	tb.Helper()
	st, err := gormstore.New(DB(tb))
	if err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}
	return st
}

func SeedUser(tb testing.TB, ctx context.Context, st *gormstore.Store, email string, role models.Role) *models.User {
	tb.Helper()
	u := &models.User{
		ID:       models.NewID(),
		Name:     "User " + email,
		Email:    email,
		Password: "hash",
		Type:     role,
	}
	if err := st.CreateUser(ctx, u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course owned by ownerID with n sections.
func SeedCourse(tb testing.TB, ctx context.Context, st *gormstore.Store, ownerID, title string, n int) *models.Course {
	tb.Helper()
	c := &models.Course{
		ID:          models.NewID(),
		UserID:      ownerID,
		Educator:    "Ada",
		Title:       title,
		Category:    "Programming",
		Price:       models.PriceFree,
		Description: "About " + title,
	}
	for i := 0; i < n; i++ {
		c.Sections = append(c.Sections, models.Section{
			ID:          models.NewID(),
			Title:       fmt.Sprintf("Section %d", i),
			Description: fmt.Sprintf("Part %d", i),
		})
	}
	if err := st.CreateCourse(ctx, c); err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedEnrollment enrolls userID into course through the store's atomic path.
func SeedEnrollment(tb testing.TB, ctx context.Context, st *gormstore.Store, userID string, course *models.Course) *models.Enrollment {
	tb.Helper()
	e := &models.Enrollment{
		ID:           models.NewID(),
		UserID:       userID,
		CourseID:     course.ID,
		CourseLength: len(course.Sections),
	}
	p := &models.PaymentRecord{
		ID:       models.NewID(),
		UserID:   userID,
		CourseID: course.ID,
		Details:  map[string]interface{}{"cardholder": "A"},
	}
	if err := st.Enroll(ctx, e, p); err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}
