package application

import (
	"context"
	"unicode/utf8"

	"github.com/colabore/colabore-api/internal/domain/document"
	"github.com/colabore/colabore-api/internal/domain/entity"
	repo "github.com/colabore/colabore-api/internal/domain/repository"
)

// ValidationError is a recoverable, field-scoped rule violation surfaced to
// the caller for correction. It is never fatal.
type ValidationError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

func (e ValidationError) Error() string { return e.Field + "." + e.Code }

const (
	CodeBlank    = "blank"
	CodeTaken    = "taken"
	CodeReserved = "reserved"
	CodeTooLong  = "too_long"
	CodeTooShort = "too_short"
	CodeInvalid  = "invalid"
)

const (
	maxPublicNameLen = 70
	minPasswordLen   = 8
)

// ValidationContext carries the transient flags that change which rules
// apply, mirroring the publish/reset flows of the platform.
type ValidationContext struct {
	PublishingProject bool
	ResettingPassword bool
	NewPassword       string // non-empty only when the password is being changed
}

// ProfileValidator checks the user aggregate's invariants against the stored
// records it references.
type ProfileValidator struct {
	Users              repo.UserRepository
	Projects           repo.ProjectRepository
	Contributions      repo.ContributionRepository
	ReservedPermalinks []string
}

func NewProfileValidator(users repo.UserRepository, projects repo.ProjectRepository, contribs repo.ContributionRepository, reserved []string) *ProfileValidator {
	return &ProfileValidator{Users: users, Projects: projects, Contributions: contribs, ReservedPermalinks: reserved}
}

// Validate returns every broken rule at once. The document checksum is only
// enforced when the user has financial activity (published projects,
// confirmed contributions, or a publish in progress) and is not in the middle
// of a password reset.
func (v *ProfileValidator) Validate(ctx context.Context, u *entity.User, vc ValidationContext) ([]ValidationError, error) {
	var errs []ValidationError

	if u.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Code: CodeBlank})
	} else {
		taken, err := v.Users.EmailTaken(ctx, u.Email, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs = append(errs, ValidationError{Field: "email", Code: CodeTaken})
		}
	}

	if u.Permalink != "" {
		if v.permalinkReserved(u.Permalink) {
			errs = append(errs, ValidationError{Field: "permalink", Code: CodeReserved})
		} else {
			taken, err := v.Users.PermalinkTaken(ctx, u.Permalink, u.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				errs = append(errs, ValidationError{Field: "permalink", Code: CodeTaken})
			}
		}
	}

	if utf8.RuneCountInString(u.PublicName) > maxPublicNameLen {
		errs = append(errs, ValidationError{Field: "public_name", Code: CodeTooLong})
	}

	if !u.AccountType.Valid() {
		errs = append(errs, ValidationError{Field: "account_type", Code: CodeInvalid})
	}

	if vc.NewPassword != "" && len(vc.NewPassword) < minPasswordLen {
		errs = append(errs, ValidationError{Field: "password", Code: CodeTooShort})
	}

	if !vc.ResettingPassword {
		active, err := v.hasFinancialActivity(ctx, u, vc)
		if err != nil {
			return nil, err
		}
		if active && !document.Valid(u.Document, u.AccountType) {
			errs = append(errs, ValidationError{Field: "document", Code: CodeInvalid})
		}
	}

	return errs, nil
}

func (v *ProfileValidator) permalinkReserved(permalink string) bool {
	for _, r := range v.ReservedPermalinks {
		if permalink == r {
			return true
		}
	}
	return false
}

func (v *ProfileValidator) hasFinancialActivity(ctx context.Context, u *entity.User, vc ValidationContext) (bool, error) {
	if vc.PublishingProject {
		return true, nil
	}
	published, err := v.Projects.HasPublishedByUser(ctx, u.ID)
	if err != nil {
		return false, err
	}
	if published {
		return true, nil
	}
	n, err := v.Contributions.CountConfirmedProjects(ctx, u.ID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
