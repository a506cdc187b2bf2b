package bookingrepo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shareit/model"
)

// Every state filter must keep the descending start order and scope on the
// requested column.
func TestListQuery_StateFilters(t *testing.T) {
	now := time.Now()

	cases := []struct {
		state   model.BookingState
		cond    string
		argsLen int
	}{
		{model.StateAll, "", 1},
		{model.StateCurrent, "b.start_at <= $2 AND b.end_at > $2", 2},
		{model.StatePast, "b.end_at < $2", 2},
		{model.StateFuture, "b.start_at > $2", 2},
		{model.StateWaiting, "b.status = $2", 2},
		{model.StateRejected, "b.status = $2", 2},
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			q, args, err := listQuery("b.booker_id", 7, tc.state, now)
			require.NoError(t, err)
			require.Contains(t, q, "b.booker_id = $1")
			if tc.cond != "" {
				require.Contains(t, q, tc.cond)
			}
			require.True(t, strings.HasSuffix(q, "ORDER BY b.start_at DESC"))
			require.Len(t, args, tc.argsLen)
			require.Equal(t, int64(7), args[0])
		})
	}
}

func TestListQuery_StatusArgument(t *testing.T) {
	now := time.Now()

	_, args, err := listQuery("i.owner_id", 1, model.StateWaiting, now)
	require.NoError(t, err)
	require.Equal(t, "WAITING", args[1])

	_, args, err = listQuery("i.owner_id", 1, model.StateRejected, now)
	require.NoError(t, err)
	require.Equal(t, "REJECTED", args[1])
}

func TestListQuery_TimeArgument(t *testing.T) {
	now := time.Now()

	for _, state := range []model.BookingState{model.StateCurrent, model.StatePast, model.StateFuture} {
		_, args, err := listQuery("b.booker_id", 1, state, now)
		require.NoError(t, err)
		require.Equal(t, now, args[1])
	}
}

func TestListQuery_ScopeColumn(t *testing.T) {
	q, _, err := listQuery("i.owner_id", 1, model.StateAll, time.Now())
	require.NoError(t, err)
	require.Contains(t, q, "i.owner_id = $1")
	require.NotContains(t, q, "b.booker_id")
}

func TestListQuery_UnknownState(t *testing.T) {
	_, _, err := listQuery("b.booker_id", 1, model.BookingState("SOMEDAY"), time.Now())
	require.Error(t, err)
}
