package services

import (
	"context"
	"net/http"
	"testing"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	tests := map[string]string{
		"":      models.PriceFree,
		"  ":    models.PriceFree,
		"0":     models.PriceFree,
		"0.00":  models.PriceFree,
		"Free":  models.PriceFree,
		"499":   "499",
		"19.99": "19.99",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePrice(in), "price %q", in)
	}
}

func courseInput(owner string) CreateCourseInput {
	return CreateCourseInput{
		OwnerID:             owner,
		Educator:            "Rob",
		Title:               "Go",
		Category:            "Programming",
		Price:               "0",
		Description:         "Learn Go",
		SectionTitles:       []string{"Intro", "Types", "Concurrency"},
		SectionDescriptions: []string{"hello", "structs", "channels"},
		Contents: []models.SectionContent{
			{Filename: "a.mp4", Path: "/uploads/a.mp4"},
		},
	}
}

func TestCreateCoursePairsFilesByPosition(t *testing.T) {
	ctx := context.Background()
	st := testutil.Store(t)
	svc := NewCourseService(st, logger.Nop())

	course, err := svc.Create(ctx, courseInput("owner-1"))
	require.NoError(t, err)
	assert.Equal(t, models.PriceFree, course.Price)

	got, err := st.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 3)
	assert.Equal(t, "a.mp4", got.Sections[0].Content.Filename)
	assert.True(t, got.Sections[1].Content.Empty())
	assert.True(t, got.Sections[2].Content.Empty())
	assert.Equal(t, "Concurrency", got.Sections[2].Title)
	assert.Zero(t, got.Enrolled)
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewCourseService(testutil.Store(t), logger.Nop())

	tests := []struct {
		name   string
		mutate func(*CreateCourseInput)
	}{
		{"missing titles", func(in *CreateCourseInput) { in.SectionTitles = nil }},
		{"missing descriptions", func(in *CreateCourseInput) { in.SectionDescriptions = nil }},
		{"length mismatch", func(in *CreateCourseInput) { in.SectionDescriptions = in.SectionDescriptions[:2] }},
		{"blank section title", func(in *CreateCourseInput) { in.SectionTitles[1] = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := courseInput("owner-1")
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, e.Status)
			assert.NotEmpty(t, e.Fields)
		})
	}
}

func TestListAndDeleteCourses(t *testing.T) {
	ctx := context.Background()
	svc := NewCourseService(testutil.Store(t), logger.Nop())

	_, err := svc.ListAll(ctx)
	assert.True(t, apperr.HasCode(err, "no_courses"))

	c, err := svc.Create(ctx, courseInput("owner-1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, courseInput("owner-2"))
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, c.ID, mine[0].ID)

	_, err = svc.ListByOwner(ctx, "owner-3")
	assert.True(t, apperr.HasCode(err, "no_courses"))

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.True(t, apperr.HasCode(svc.Delete(ctx, c.ID), "course_not_found"))
}
