package forms

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privatecounsel/leadsite/configs"
)

func defaultForm() configs.FormConfig {
	return configs.FormConfig{
		RequiredFields: []string{"name", "email"},
		HoneypotField:  "honeypot",
		DefaultFocus:   "General",
	}
}

func TestValidateRequiredFields(t *testing.T) {
	_, err := Validate(map[string]string{"email": "ada@example.com"}, defaultForm())
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	_, err = Validate(map[string]string{"name": "Ada", "email": "   "}, defaultForm())
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}

func TestValidateVariantRequiredFields(t *testing.T) {
	form := defaultForm()
	form.RequiredFields = []string{"name", "email", "phone"}

	_, err := Validate(map[string]string{"name": "Ada", "email": "ada@example.com"}, form)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone", vErr.Field)
}

func TestValidateEmailShape(t *testing.T) {
	for _, bad := range []string{"nope", "a@b", "a b@c.com", "@c.com"} {
		_, err := Validate(map[string]string{"name": "Ada", "email": bad}, defaultForm())
		assert.Error(t, err, "email %q should be rejected", bad)
	}

	clean, err := Validate(map[string]string{"name": "Ada", "email": "ada@example.com"}, defaultForm())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", clean.Email)
}

func TestValidateEscapesMarkup(t *testing.T) {
	clean, err := Validate(map[string]string{
		"name":     "<script>alert(1)</script>",
		"email":    "ada@example.com",
		"focus":    "Tax <b>law</b>",
		"referrer": "<img src=x>",
	}, defaultForm())
	require.NoError(t, err)

	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", clean.Name)
	assert.Equal(t, "Tax &lt;b&gt;law&lt;/b&gt;", clean.Focus)
	assert.Equal(t, "&lt;img src=x&gt;", clean.Referrer)
	assert.NotContains(t, clean.Name, "<")
	assert.NotContains(t, clean.Name, ">")
}

func TestValidateFocusFallsBackToSupportType(t *testing.T) {
	clean, err := Validate(map[string]string{
		"name":         "Ada",
		"email":        "ada@example.com",
		"support_type": "Contracts",
	}, defaultForm())
	require.NoError(t, err)
	assert.Equal(t, "Contracts", clean.Focus)

	clean, err = Validate(map[string]string{"name": "Ada", "email": "ada@example.com"}, defaultForm())
	require.NoError(t, err)
	assert.Equal(t, "General", clean.Focus)
}

func TestNewSubmissionID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSubmissionID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
