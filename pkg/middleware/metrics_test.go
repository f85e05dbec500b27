package middleware

import "testing"

func TestRouteTemplate(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"booking by id", "/api/v1/bookings/id/68a0000000000000000000aa", "/api/v1/bookings/id/:id"},
		{"cancel action", "/api/v1/bookings/id/68a0000000000000000000aa/cancel", "/api/v1/bookings/id/:id/cancel"},
		{"resource availability", "/api/v1/resources/id/68a0000000000000000000bb/availability", "/api/v1/resources/id/:id/availability"},
		{"collection route untouched", "/api/v1/bookings", "/api/v1/bookings"},
		{"health untouched", "/health", "/health"},
		{"trailing id segment without value", "/api/v1/resources/id/", "/api/v1/resources/id/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := routeTemplate(tc.path); got != tc.want {
				t.Errorf("routeTemplate(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
