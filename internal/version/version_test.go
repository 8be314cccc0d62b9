package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_IncludesBuildInformation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fowatch dev (commit unknown, built unknown)", String())
}
