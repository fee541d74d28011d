package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

func TestAnalyticsProjection(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	lastLogin := now.Add(-2 * time.Hour)

	u := &entity.User{
		ID:           "u1",
		Email:        "ana@example.com",
		Name:         "Ana",
		PublicName:   "Ana P.",
		Admin:        true,
		SignInCount:  8,
		LastSignInAt: &lastLogin,
		CreatedAt:    now.AddDate(-1, 0, 0),
	}

	contribs := newFakeContributionRepo()
	contribs.confirmed["u1"] = []entity.Contribution{
		{UserID: "u1", ProjectID: "proj-1", WasConfirmed: true},
		{UserID: "u1", ProjectID: "proj-1", WasConfirmed: true}, // same project counts once
		{UserID: "u1", ProjectID: "proj-2", WasConfirmed: true},
	}
	projects := &fakeProjectRepo{
		projects: []entity.Project{
			{ID: "proj-3", UserID: "u1", State: entity.ProjectStateOnline},
			{ID: "proj-4", UserID: "u1", State: "draft"},
		},
		published: 1,
		hasPosts:  true,
	}
	follows := &fakeFollowStats{follows: 4, followers: 9}

	a := NewAnalytics(contribs, projects, follows, &fakeExtAuth{hasFB: true})
	doc, err := a.Projection(context.Background(), u, now)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":                 "u1",
		"user_id":            "u1",
		"public_name":        "Ana P.",
		"email":              "ana@example.com",
		"name":               "Ana",
		"contributions":      2,
		"projects":           2,
		"published_projects": 1,
		"created":            u.CreatedAt,
		"has_fb_auth":        true,
		"has_online_project": true,
		"has_created_post":   true,
		"last_login":         &lastLogin,
		"created_today":      false,
		"follows_count":      4,
		"followers_count":    9,
		"is_admin_role":      true,
	}, doc)
}

func TestAnalyticsProjectionNewUser(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	u := &entity.User{
		ID:          "u1",
		CreatedAt:   now.Add(-30 * time.Minute),
		SignInCount: 1,
	}

	a := NewAnalytics(newFakeContributionRepo(), &fakeProjectRepo{}, &fakeFollowStats{}, nil)
	doc, err := a.Projection(context.Background(), u, now)
	require.NoError(t, err)

	assert.Equal(t, true, doc["created_today"])
	assert.Equal(t, false, doc["has_fb_auth"])
	assert.Equal(t, 0, doc["contributions"])
	assert.Nil(t, doc["last_login"])
}

func TestCreatedToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		createdAt   time.Time
		signInCount int
		want        bool
	}{
		{name: "same day first sign-in", createdAt: now.Add(-time.Hour), signInCount: 1, want: true},
		{name: "same day never signed in", createdAt: now.Add(-time.Hour), signInCount: 0, want: true},
		{name: "same day repeat visitor", createdAt: now.Add(-time.Hour), signInCount: 2, want: false},
		{name: "yesterday", createdAt: now.AddDate(0, 0, -1), signInCount: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &entity.User{CreatedAt: tt.createdAt, SignInCount: tt.signInCount}
			assert.Equal(t, tt.want, u.CreatedToday(now))
		})
	}
}
