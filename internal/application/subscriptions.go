package application

import (
	"context"

	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
)

// Subscriptions resolves a user's opt-in state for project post
// notifications, combining the global account flag with per-project
// unsubscribe records.
type Subscriptions struct {
	Unsubscribes  repo.UnsubscribeRepository
	Contributions repo.ContributionRepository
}

func NewSubscriptions(unsubs repo.UnsubscribeRepository, contribs repo.ContributionRepository) *Subscriptions {
	return &Subscriptions{Unsubscribes: unsubs, Contributions: contribs}
}

// SubscribedToProjectPosts is true when the account-level flag is on and no
// global (nil project) unsubscribe record exists.
func (s *Subscriptions) SubscribedToProjectPosts(ctx context.Context, u *entity.User) (bool, error) {
	if !u.SubscribedToProjectPosts {
		return false, nil
	}
	optedOut, err := s.Unsubscribes.Exists(ctx, u.ID, nil)
	if err != nil {
		return false, err
	}
	return !optedOut, nil
}

// SubscribedToProject is true when the user is a confirmed contributor to the
// project and has no unsubscribe record scoped to it.
func (s *Subscriptions) SubscribedToProject(ctx context.Context, u *entity.User, projectID string) (bool, error) {
	confirmed, err := s.Contributions.HasConfirmedForProject(ctx, u.ID, projectID)
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}
	optedOut, err := s.Unsubscribes.Exists(ctx, u.ID, &projectID)
	if err != nil {
		return false, err
	}
	return !optedOut, nil
}

// ProjectSubscription is the opt-in state for one contributed project.
type ProjectSubscription struct {
	ProjectID  string `json:"project_id"`
	Subscribed bool   `json:"subscribed"`
}

// ProjectSubscriptions lists every project the user has a confirmed
// contribution to, each with its unsubscribe record applied. Multiple
// contributions to the same project collapse into one entry.
func (s *Subscriptions) ProjectSubscriptions(ctx context.Context, u *entity.User) ([]ProjectSubscription, error) {
	contribs, err := s.Contributions.ConfirmedByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(contribs))
	out := make([]ProjectSubscription, 0, len(contribs))
	for _, c := range contribs {
		if seen[c.ProjectID] {
			continue
		}
		seen[c.ProjectID] = true
		pid := c.ProjectID
		optedOut, err := s.Unsubscribes.Exists(ctx, u.ID, &pid)
		if err != nil {
			return nil, err
		}
		out = append(out, ProjectSubscription{ProjectID: pid, Subscribed: !optedOut})
	}
	return out, nil
}

// Unsubscribe records an opt-out for the user; a nil projectID opts out of
// all project posts.
func (s *Subscriptions) Unsubscribe(ctx context.Context, u *entity.User, projectID *string) error {
	exists, err := s.Unsubscribes.Exists(ctx, u.ID, projectID)
	if err != nil || exists {
		return err
	}
	return s.Unsubscribes.Create(ctx, u.ID, projectID)
}
