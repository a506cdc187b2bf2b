package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("item %d not found", 7)))
	require.Equal(t, KindValidation, KindOf(Validation("bad dates")))
	require.Equal(t, KindForbidden, KindOf(Forbidden("not the owner")))
	require.Equal(t, KindConflict, KindOf(Conflict("email taken")))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("save comment: %w", Validation("blank text"))
	require.Equal(t, KindValidation, KindOf(err))
	require.Contains(t, err.Error(), "blank text")
}
