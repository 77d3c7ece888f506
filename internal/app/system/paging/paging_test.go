package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing", "/schools", 1},
		{"empty", "/schools?page=", 1},
		{"first", "/schools?page=1", 1},
		{"third", "/schools?page=3", 3},
		{"zero", "/schools?page=0", 1},
		{"negative", "/schools?page=-4", 1},
		{"not a number", "/schools?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParsePage(r); got != tt.want {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	for page := 1; page <= 25; page++ {
		want := int64((page - 1) * 10)
		if got := Offset(page, 10); got != want {
			t.Errorf("Offset(%d, 10) = %d, want %d", page, got, want)
		}
	}

	// Not validated: page 0 walks off the front.
	if got := Offset(0, 10); got != -10 {
		t.Errorf("Offset(0, 10) = %d, want -10", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		shown int
		total int64
		want  Range
	}{
		{
			name:  "no results",
			page:  1,
			shown: 0,
			total: 0,
			want:  Range{},
		},
		{
			name:  "first page full",
			page:  1,
			shown: 10,
			total: 35,
			want:  Range{Start: 1, End: 10, TotalPages: 4, HasPrev: false, HasNext: true},
		},
		{
			name:  "last page partial",
			page:  4,
			shown: 5,
			total: 35,
			want:  Range{Start: 31, End: 35, TotalPages: 4, HasPrev: true, HasNext: false},
		},
		{
			name:  "page past the end",
			page:  9,
			shown: 0,
			total: 35,
			want:  Range{TotalPages: 4, HasPrev: true, HasNext: false},
		},
		{
			name:  "total lags the page",
			page:  1,
			shown: 3,
			total: 2,
			want:  Range{Start: 1, End: 3, TotalPages: 1, HasPrev: false, HasNext: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.page, 10, tt.shown, tt.total)
			if got != tt.want {
				t.Errorf("ComputeRange(%d, 10, %d, %d) = %+v, want %+v", tt.page, tt.shown, tt.total, got, tt.want)
			}
		})
	}
}
