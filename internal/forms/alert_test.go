package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whistleline/internal/models"
)

func validForm() AlertForm {
	return AlertForm{
		Title:       "Suspicious invoicing in procurement",
		Description: "Over the last quarter several invoices were approved without any supporting documents.",
	}
}

func TestAlertFormValidate(t *testing.T) {
	t.Run("minimal valid form defaults", func(t *testing.T) {
		sub, errs := validForm().Validate()
		require.Nil(t, errs)
		assert.True(t, sub.Anonymous)
		assert.Equal(t, models.UrgencyMedium, sub.Urgency)
		assert.Nil(t, sub.Contact)
		assert.Empty(t, sub.Name)
	})

	t.Run("title is trimmed and bounded", func(t *testing.T) {
		f := validForm()
		f.Title = "   " + f.Title + "   "
		sub, errs := f.Validate()
		require.Nil(t, errs)
		assert.Equal(t, "Suspicious invoicing in procurement", sub.Title)

		f.Title = "abcd"
		_, errs = f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Param)

		f.Title = strings.Repeat("x", 256)
		_, errs = f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Param)
	})

	t.Run("bounds count characters not bytes", func(t *testing.T) {
		f := validForm()
		f.Title = "ééé"
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Param)

		f.Title = strings.Repeat("é", 200)
		sub, errs := f.Validate()
		require.Nil(t, errs)
		assert.Equal(t, strings.Repeat("é", 200), sub.Title)

		f.Title = strings.Repeat("é", 256)
		_, errs = f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Param)

		f = validForm()
		f.Description = strings.Repeat("é", 19)
		_, errs = f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "description", errs[0].Param)

		f.Description = strings.Repeat("é", 20)
		_, errs = f.Validate()
		require.Nil(t, errs)
	})

	t.Run("short description rejected", func(t *testing.T) {
		f := validForm()
		f.Description = "too short"
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "description", errs[0].Param)
	})

	t.Run("all failures reported together", func(t *testing.T) {
		f := AlertForm{Title: "abc", Description: "short"}
		_, errs := f.Validate()
		require.Len(t, errs, 2)
		params := []string{errs[0].Param, errs[1].Param}
		assert.Contains(t, params, "title")
		assert.Contains(t, params, "description")
	})

	t.Run("urgency enum", func(t *testing.T) {
		f := validForm()
		f.Urgency = "critical"
		sub, errs := f.Validate()
		require.Nil(t, errs)
		assert.Equal(t, models.UrgencyCritical, sub.Urgency)

		f.Urgency = "urgent"
		_, errs = f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "urgency", errs[0].Param)
	})

	t.Run("evidence bounded", func(t *testing.T) {
		f := validForm()
		f.Evidence = strings.Repeat("e", 1001)
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "evidence", errs[0].Param)
	})

	t.Run("anonymous must be boolean", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "maybe"
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "anonymous", errs[0].Param)
	})

	t.Run("named submission requires name and contact", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "false"
		_, errs := f.Validate()
		require.Len(t, errs, 2)

		f.Name = "Jordan Doe"
		f.Contact = "jordan@example.org"
		sub, errs := f.Validate()
		require.Nil(t, errs)
		assert.False(t, sub.Anonymous)
		require.NotNil(t, sub.Contact)
		assert.Equal(t, models.ContactEmail, sub.Contact.Kind)
		assert.Equal(t, "jordan@example.org", sub.Contact.Value)
	})

	t.Run("contact with at sign must be a valid email", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "false"
		f.Name = "Jordan Doe"
		f.Contact = "jordan@invalid"
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "contact", errs[0].Param)
	})

	t.Run("phone contact keeps digits only", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "false"
		f.Name = "Jordan Doe"
		f.Contact = "+33 (0)1 23-45-67-89"
		sub, errs := f.Validate()
		require.Nil(t, errs)
		require.NotNil(t, sub.Contact)
		assert.Equal(t, models.ContactPhone, sub.Contact.Kind)
		assert.Equal(t, "330123456789", sub.Contact.Value)
	})

	t.Run("too short phone rejected", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "false"
		f.Name = "Jordan Doe"
		f.Contact = "12345"
		_, errs := f.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "contact", errs[0].Param)
	})

	t.Run("anonymous submission ignores name rules", func(t *testing.T) {
		f := validForm()
		f.Anonymous = "true"
		f.Name = "x"
		sub, errs := f.Validate()
		require.Nil(t, errs)
		assert.Empty(t, sub.Name)
		assert.Nil(t, sub.Contact)
	})
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.org"))
}
