package internal_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/taskplanner-api/internal"
)

func makeTasks(n int) []internal.Task {
	res := make([]internal.Task, n)
	for i := range res {
		res[i] = internal.Task{ID: fmt.Sprintf("task-%d", i)}
	}

	return res
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tasks := makeTasks(12)

	tests := []struct {
		name        string
		number      int
		wantNumber  int
		wantLen     int
		wantFirst   string
		hasPrevious bool
		hasNext     bool
	}{
		{"first page", 1, 1, 5, "task-0", false, true},
		{"middle page", 2, 2, 5, "task-5", true, true},
		{"last page is partial", 3, 3, 2, "task-10", true, false},
		{"zero clamps to first", 0, 1, 5, "task-0", false, true},
		{"negative clamps to first", -7, 1, 5, "task-0", false, true},
		{"past the end clamps to last", 99, 3, 2, "task-10", true, false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := internal.Paginate(tasks, tt.number, internal.DefaultPageSize)

			require.Equal(t, tt.wantNumber, page.Number)
			require.Len(t, page.Items, tt.wantLen)
			require.Equal(t, tt.wantFirst, page.Items[0].ID)
			require.Equal(t, 3, page.TotalPages)
			require.Equal(t, 12, page.TotalItems)
			require.Equal(t, tt.hasPrevious, page.HasPrevious)
			require.Equal(t, tt.hasNext, page.HasNext)
		})
	}
}

func TestPaginate_Complete(t *testing.T) {
	t.Parallel()

	// Walking every page yields each item exactly once, in order.
	tasks := makeTasks(23)

	var walked []string

	page := internal.Paginate(tasks, 1, internal.DefaultPageSize)
	for {
		for _, item := range page.Items {
			walked = append(walked, item.ID)
		}

		if !page.HasNext {
			break
		}

		page = internal.Paginate(tasks, page.Number+1, internal.DefaultPageSize)
	}

	require.Len(t, walked, 23)
	for i, id := range walked {
		require.Equal(t, fmt.Sprintf("task-%d", i), id)
	}
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	page := internal.Paginate(nil, 3, internal.DefaultPageSize)

	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Number)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, 0, page.TotalItems)
	require.False(t, page.HasPrevious)
	require.False(t, page.HasNext)
}

func TestPaginate_InvalidSizeFallsBack(t *testing.T) {
	t.Parallel()

	page := internal.Paginate(makeTasks(7), 1, 0)

	require.Len(t, page.Items, internal.DefaultPageSize)
	require.Equal(t, 2, page.TotalPages)
}
