package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSchema(t *testing.T) {
	t.Parallel()

	valid := map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "johndoe@gmail.com",
		"password":  "something",
	}
	assert.Empty(t, RegisterSchema().Validate(valid))

	t.Run("missing first name", func(t *testing.T) {
		in := clone(valid)
		in["firstName"] = ""
		errs := RegisterSchema().Validate(in)
		require.Len(t, errs, 1)
		assert.Equal(t, "firstName", errs[0].Field)
		assert.Equal(t, "Firstname is required!", errs[0].Message)
	})

	t.Run("whitespace only counts as missing", func(t *testing.T) {
		in := clone(valid)
		in["lastName"] = "   "
		errs := RegisterSchema().Validate(in)
		require.Len(t, errs, 1)
		assert.Equal(t, "lastName", errs[0].Field)
	})

	t.Run("malformed email", func(t *testing.T) {
		in := clone(valid)
		in["email"] = "invalid-email"
		errs := RegisterSchema().Validate(in)
		require.Len(t, errs, 1)
		assert.Equal(t, "Email format isn't correct!", errs[0].Message)
	})

	t.Run("short password", func(t *testing.T) {
		in := clone(valid)
		in["password"] = "short"
		errs := RegisterSchema().Validate(in)
		require.Len(t, errs, 1)
		assert.Equal(t, "Password should be at least 8 chars", errs[0].Message)
	})

	t.Run("multiple failures reported per field", func(t *testing.T) {
		errs := RegisterSchema().Validate(map[string]string{})
		assert.Len(t, errs, 4)
	})
}

func TestLoginSchema(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LoginSchema().Validate(map[string]string{
		"email":    "johndoe@gmail.com",
		"password": "something",
	}))

	errs := LoginSchema().Validate(map[string]string{
		"email": "john@example.com'; DROP TABLE users; --",
	})
	assert.Len(t, errs, 2)
}

func clone(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
