package itemrepo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Search must never surface unavailable items and must match both name and
// description case-insensitively.
func TestSearchQuery(t *testing.T) {
	require.Contains(t, searchQuery, "available = true")
	require.Contains(t, searchQuery, "name ILIKE '%' || $1 || '%'")
	require.Contains(t, searchQuery, "description ILIKE '%' || $1 || '%'")
	require.Contains(t, searchQuery, "ORDER BY name")
}
