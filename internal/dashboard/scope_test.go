package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedIdentity(t *testing.T) {
	assert.Equal(t, "jane doe", DerivedIdentity("jane.doe@example.com"))
	assert.Equal(t, "jane doe", DerivedIdentity("jane_doe@example.com"))
	assert.Equal(t, "jane doe", DerivedIdentity("jane-doe@example.com"))
	assert.Equal(t, "admin", DerivedIdentity("admin@example.com"))
	assert.Equal(t, "jdoe", DerivedIdentity("jdoe"))
}

func TestNameInScope(t *testing.T) {
	assert.True(t, NameInScope("Jane Doe", "jane doe"))
	assert.True(t, NameInScope("JANE DOE", "jane doe"))
	assert.False(t, NameInScope("John Doe", "jane doe"))

	// The substring heuristic: a shorter identity catches longer names.
	assert.True(t, NameInScope("Jane Doe Smith", "jane doe"))
}

func TestScopeFor(t *testing.T) {
	admin := Session{Email: "boss@example.com", IsAdmin: true}
	exact, contains := admin.scopeFor("Jane Doe")
	assert.Equal(t, "Jane Doe", exact)
	assert.Empty(t, contains)

	exact, contains = admin.scopeFor("")
	assert.Empty(t, exact)
	assert.Empty(t, contains)

	// A self-service user is pinned to their identity no matter what they ask for.
	self := Session{Email: "jane.doe@example.com"}
	exact, contains = self.scopeFor("John Doe")
	assert.Empty(t, exact)
	assert.Equal(t, "jane doe", contains)
}
