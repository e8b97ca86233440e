package github

import "net/http"

// SetBaseURLForTest overrides the API base URL, for pointing a
// Repository at an httptest.Server.
func SetBaseURLForTest(r *Repository, baseURL string) {
	r.baseURL = baseURL
}

// SetHTTPClientForTest overrides the HTTP client, for pointing a
// Repository at a recorded/replayed transport.
func SetHTTPClientForTest(r *Repository, client *http.Client) {
	r.client = client
}
