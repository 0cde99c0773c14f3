package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values get defaults", PageRequest{}, 1, 20},
		{"negative page clamps", PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size clamps", PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid request is untouched", PageRequest{Page: 3, PageSize: 50}, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage || tt.in.PageSize != tt.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d",
					tt.in.Page, tt.in.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	req := PageRequest{Page: 1, PageSize: 10}

	t.Run("rounds total pages up", func(t *testing.T) {
		response := NewPageResponse([]int{1, 2, 3}, req, 25)
		if response.TotalPages != 3 {
			t.Errorf("expected 3 pages for 25 items, got %d", response.TotalPages)
		}
	})

	t.Run("exact division", func(t *testing.T) {
		response := NewPageResponse([]int{}, req, 30)
		if response.TotalPages != 3 {
			t.Errorf("expected 3 pages for 30 items, got %d", response.TotalPages)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		response := NewPageResponse([]int{}, req, 0)
		if response.TotalPages != 0 || response.TotalItems != 0 {
			t.Errorf("expected empty response, got %+v", response)
		}
	})
}
