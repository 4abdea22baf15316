package pagination

import "testing"

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	t.Run("defaults", func(t *testing.T) {
		got := Slice(items, PageRequest{})
		if got.Page != 1 || got.PageSize != 20 || len(got.Data) != 5 || got.TotalPages != 1 {
			t.Errorf("unexpected page: %+v", got)
		}
	})

	t.Run("middle_page", func(t *testing.T) {
		got := Slice(items, PageRequest{Page: 2, PageSize: 2})
		if len(got.Data) != 2 || got.Data[0] != 3 || got.Data[1] != 4 {
			t.Errorf("unexpected data: %v", got.Data)
		}
		if got.TotalItems != 5 || got.TotalPages != 3 {
			t.Errorf("unexpected totals: %+v", got)
		}
	})

	t.Run("past_the_end", func(t *testing.T) {
		got := Slice(items, PageRequest{Page: 9, PageSize: 2})
		if got.Data == nil || len(got.Data) != 0 {
			t.Errorf("expected empty non-nil data, got %v", got.Data)
		}
	})

	t.Run("does_not_alias_input", func(t *testing.T) {
		got := Slice(items, PageRequest{Page: 1, PageSize: 2})
		got.Data[0] = 99
		if items[0] != 1 {
			t.Error("page data should not alias the input slice")
		}
	})
}
