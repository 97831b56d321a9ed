package pagination

import (
	"net/url"
	"strings"
	"testing"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{
			name:      "absent parameters",
			query:     "",
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "explicit values",
			query:     "page=3&limit=25",
			wantPage:  3,
			wantLimit: 25,
		},
		{
			name:      "non-numeric values",
			query:     "page=abc&limit=xyz",
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "negative values",
			query:     "page=-1&limit=-5",
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "zero values",
			query:     "page=0&limit=0",
			wantPage:  1,
			wantLimit: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			page, limit := Bounds(q)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Fatalf("Bounds(%q) = (%d, %d), want (%d, %d)", tt.query, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "exact division", total: 20, limit: 10, want: 2},
		{name: "remainder rounds up", total: 21, limit: 10, want: 3},
		{name: "empty collection", total: 0, limit: 10, want: 0},
		{name: "single page", total: 5, limit: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.total, tt.limit); got != tt.want {
				t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}

func TestLinkHeader_SinglePage(t *testing.T) {
	if got := LinkHeader("http://localhost:8080/orders", 1, 10, 1); got != "" {
		t.Fatalf("LinkHeader for a single page = %q, want empty", got)
	}
}

func TestLinkHeader_MiddlePage(t *testing.T) {
	got := LinkHeader("http://localhost:8080/orders", 2, 10, 4)

	wantParts := []string{
		`<http://localhost:8080/orders?limit=10&page=1>; rel="first"`,
		`<http://localhost:8080/orders?limit=10&page=1>; rel="prev"`,
		`<http://localhost:8080/orders?limit=10&page=3>; rel="next"`,
		`<http://localhost:8080/orders?limit=10&page=4>; rel="last"`,
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Fatalf("LinkHeader = %q, missing %q", got, part)
		}
	}
}

func TestLinkHeader_FirstPageOmitsPrev(t *testing.T) {
	got := LinkHeader("http://localhost:8080/orders", 1, 10, 4)

	if strings.Contains(got, `rel="prev"`) {
		t.Fatalf("first page must not carry prev, got %q", got)
	}
	if !strings.Contains(got, `page=2>; rel="next"`) {
		t.Fatalf("first page must point next at page 2, got %q", got)
	}
}

func TestLinkHeader_LastPageOmitsNext(t *testing.T) {
	got := LinkHeader("http://localhost:8080/orders", 4, 10, 4)

	if strings.Contains(got, `rel="next"`) {
		t.Fatalf("last page must not carry next, got %q", got)
	}
	if !strings.Contains(got, `page=3>; rel="prev"`) {
		t.Fatalf("last page must point prev at page 3, got %q", got)
	}
}

func TestLinkHeader_BoundsClamped(t *testing.T) {
	got := LinkHeader("http://localhost:8080/users", 99, 10, 3)

	if strings.Contains(got, `rel="next"`) {
		t.Fatalf("page beyond the end clamps to the last page and drops next, got %q", got)
	}
	if !strings.Contains(got, `page=2>; rel="prev"`) {
		t.Fatalf("prev must be derived from clamped page, got %q", got)
	}
}
