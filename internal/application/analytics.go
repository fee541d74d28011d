package application

import (
	"context"
	"time"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
)

// ExternalAuthLookup answers whether a user signed up through a third-party
// provider. The provider glue itself lives outside this core.
type ExternalAuthLookup interface {
	HasFacebookAuth(ctx context.Context, userID string) (bool, error)
}

// Analytics builds the read-only flat projection exported to the analytics
// pipeline. The key set is fixed; downstream consumers depend on it.
type Analytics struct {
	Contributions repo.ContributionRepository
	Projects      repo.ProjectRepository
	Follows       repo.FollowStats
	ExternalAuth  ExternalAuthLookup
}

func NewAnalytics(contribs repo.ContributionRepository, projects repo.ProjectRepository, follows repo.FollowStats, extAuth ExternalAuthLookup) *Analytics {
	return &Analytics{Contributions: contribs, Projects: projects, Follows: follows, ExternalAuth: extAuth}
}

// Projection assembles the export for one user at time now.
func (a *Analytics) Projection(ctx context.Context, u *entity.User, now time.Time) (map[string]any, error) {
	contributions, err := a.Contributions.CountConfirmedProjects(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	projects, err := a.Projects.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	published, err := a.Projects.CountPublishedByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	hasOnline, err := a.Projects.HasWithState(ctx, u.ID, entity.ProjectStateOnline)
	if err != nil {
		return nil, err
	}
	hasPosts, err := a.Projects.HasPostsByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	follows, err := a.Follows.FollowsCount(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	followers, err := a.Follows.FollowersCount(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	hasFB := false
	if a.ExternalAuth != nil {
		if hasFB, err = a.ExternalAuth.HasFacebookAuth(ctx, u.ID); err != nil {
			return nil, err
		}
	}

	return map[string]any{
		"id":                 u.ID,
		"user_id":            u.ID,
		"public_name":        u.PublicName,
		"email":              u.Email,
		"name":               u.Name,
		"contributions":      contributions,
		"projects":           projects,
		"published_projects": published,
		"created":            u.CreatedAt,
		"has_fb_auth":        hasFB,
		"has_online_project": hasOnline,
		"has_created_post":   hasPosts,
		"last_login":         u.LastSignInAt,
		"created_today":      u.CreatedToday(now),
		"follows_count":      follows,
		"followers_count":    followers,
		"is_admin_role":      u.Admin,
	}, nil
}
