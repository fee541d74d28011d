package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

const validCPF = "52998224725"

func validUser() *entity.User {
	return &entity.User{
		ID:          "u1",
		Email:       "ana@example.com",
		AccountType: entity.AccountIndividual,
	}
}

func newValidator(users *fakeUserRepo, projects *fakeProjectRepo, contribs *fakeContributionRepo) *ProfileValidator {
	if users == nil {
		users = newFakeUserRepo()
	}
	if projects == nil {
		projects = &fakeProjectRepo{}
	}
	if contribs == nil {
		contribs = newFakeContributionRepo()
	}
	return NewProfileValidator(users, projects, contribs, []string{"api", "suporte"})
}

func fieldCodes(errs []ValidationError) map[string]string {
	out := map[string]string{}
	for _, e := range errs {
		out[e.Field] = e.Code
	}
	return out
}

func TestValidateCleanProfile(t *testing.T) {
	v := newValidator(nil, nil, nil)
	errs, err := v.Validate(context.Background(), validUser(), ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateEmail(t *testing.T) {
	other := &entity.User{ID: "u2", Email: "taken@example.com"}
	v := newValidator(newFakeUserRepo(other), nil, nil)

	u := validUser()
	u.Email = ""
	errs, err := v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeBlank, fieldCodes(errs)["email"])

	u = validUser()
	u.Email = "taken@example.com"
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeTaken, fieldCodes(errs)["email"])

	// The user's own record does not conflict with itself.
	errs, err = v.Validate(context.Background(), other, ValidationContext{})
	require.NoError(t, err)
	assert.NotContains(t, fieldCodes(errs), "email")
}

func TestValidatePermalink(t *testing.T) {
	other := &entity.User{ID: "u2", Email: "b@example.com", Permalink: "bruno"}
	v := newValidator(newFakeUserRepo(other), nil, nil)

	u := validUser()
	u.Permalink = "api"
	errs, err := v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeReserved, fieldCodes(errs)["permalink"])

	u.Permalink = "bruno"
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeTaken, fieldCodes(errs)["permalink"])

	// Unset permalink is fine.
	u.Permalink = ""
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidatePublicNameLength(t *testing.T) {
	v := newValidator(nil, nil, nil)

	u := validUser()
	u.PublicName = strings.Repeat("a", 70)
	errs, err := v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)

	u.PublicName = strings.Repeat("a", 71)
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeTooLong, fieldCodes(errs)["public_name"])

	// Length is measured in runes, not bytes.
	u.PublicName = strings.Repeat("ã", 70)
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateAccountType(t *testing.T) {
	v := newValidator(nil, nil, nil)
	u := validUser()
	u.AccountType = "partnership"

	errs, err := v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalid, fieldCodes(errs)["account_type"])
}

func TestValidatePasswordLength(t *testing.T) {
	v := newValidator(nil, nil, nil)
	u := validUser()

	errs, err := v.Validate(context.Background(), u, ValidationContext{NewPassword: "short12"})
	require.NoError(t, err)
	assert.Equal(t, CodeTooShort, fieldCodes(errs)["password"])

	errs, err = v.Validate(context.Background(), u, ValidationContext{NewPassword: "long-enough"})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateDocumentRequiresFinancialActivity(t *testing.T) {
	u := validUser() // no document set

	// No financial activity: document not checked.
	v := newValidator(nil, nil, nil)
	errs, err := v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)

	// Publishing a project forces the check.
	errs, err = v.Validate(context.Background(), u, ValidationContext{PublishingProject: true})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalid, fieldCodes(errs)["document"])

	// An already published project forces it too.
	v = newValidator(nil, &fakeProjectRepo{published: 1}, nil)
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalid, fieldCodes(errs)["document"])

	// So do confirmed contributions.
	contribs := newFakeContributionRepo()
	contribs.confirmed["u1"] = []entity.Contribution{{UserID: "u1", ProjectID: "proj-1", WasConfirmed: true}}
	v = newValidator(nil, nil, contribs)
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalid, fieldCodes(errs)["document"])

	// A valid document satisfies the check.
	u.Document = validCPF
	errs, err = v.Validate(context.Background(), u, ValidationContext{})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateSkipsDocumentDuringPasswordReset(t *testing.T) {
	u := validUser()
	v := newValidator(nil, &fakeProjectRepo{published: 1}, nil)

	errs, err := v.Validate(context.Background(), u, ValidationContext{ResettingPassword: true})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	v := newValidator(nil, nil, nil)
	u := &entity.User{ID: "u1", AccountType: "partnership", PublicName: strings.Repeat("x", 80)}

	errs, err := v.Validate(context.Background(), u, ValidationContext{NewPassword: "short"})
	require.NoError(t, err)

	codes := fieldCodes(errs)
	assert.Len(t, errs, 4)
	assert.Equal(t, CodeBlank, codes["email"])
	assert.Equal(t, CodeTooLong, codes["public_name"])
	assert.Equal(t, CodeInvalid, codes["account_type"])
	assert.Equal(t, CodeTooShort, codes["password"])
}
