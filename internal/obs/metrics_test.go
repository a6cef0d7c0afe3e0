package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/v1/users/01ARZ3NDEK":        "/v1/users/:id",
		"/v1/documents/01ARZ3NDEK":    "/v1/documents/:id",
		"/v1/documents":               "/v1/documents",
		"/v1/documents/upload":        "/v1/documents/upload",
		"/v1/documents/abc/extra":     "/v1/documents/abc/extra",
		"/v1/ingestion/trigger":       "/v1/ingestion/trigger",
		"/v1/documents?limit=10":      "/v1/documents",
		"/v1/auth/login":              "/v1/auth/login",
		"/v1/users/01ARZ3NDEK?full=1": "/v1/users/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
