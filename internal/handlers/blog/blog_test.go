package blog

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "our-new-single-origin-beans", Slugify("Our New Single Origin Beans"))
	assert.Equal(t, "brewing-101-the-basics", Slugify("Brewing 101: The Basics!"))
	assert.Equal(t, "cafe-au-lait", Slugify("  Cafe au   Lait  "))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

// Two different titles can normalize to the same slug, the lookup table
// must not let one post silently steal another's entry.
func TestCanClaimSlug(t *testing.T) {
	self := gocql.TimeUUID()
	other := gocql.TimeUUID()

	assert.True(t, canClaimSlug(gocql.UUID{}, false, self), "free slug is claimable")
	assert.True(t, canClaimSlug(self, true, self), "own slug stays claimable")
	assert.False(t, canClaimSlug(other, true, self), "another post's slug is not")
}

func TestSlugifyCollision(t *testing.T) {
	assert.Equal(t, Slugify("Hello, World!"), Slugify("Hello World"))
}
