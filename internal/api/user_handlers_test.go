package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/KaruG1999/roster/internal/types"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeUserResponse(t *testing.T, resp *http.Response) UserResponse {
	t.Helper()

	var out UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return out
}

func TestCreateUser(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/users", `{"name":"Juan","age":25,"email":"juan@mail.com"}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	out := decodeUserResponse(t, resp)

	if !out.Success {
		t.Error("expected success=true")
	}
	if out.Data == nil {
		t.Fatal("expected created user in response")
	}
	if out.Data.ID != 1 {
		t.Errorf("expected first user id 1, got %d", out.Data.ID)
	}
	if out.Data.Name != "Juan" || out.Data.Age != 25 || out.Data.Email != "juan@mail.com" {
		t.Errorf("unexpected user fields: %+v", out.Data)
	}
	if out.Data.Verdict.Status != types.VerdictUnchecked {
		t.Errorf("expected unchecked verdict on creation, got %s", out.Data.Verdict.Status)
	}

	users := ts.store.List()
	if len(users) != 1 {
		t.Fatalf("expected 1 persisted user, got %d", len(users))
	}
}

func TestCreateUser_InvalidInput(t *testing.T) {
	testCases := []struct {
		name            string
		body            string
		expectedMessage string
	}{
		{
			name:            "empty name",
			body:            `{"name":"","age":25,"email":"juan@mail.com"}`,
			expectedMessage: "name must not be empty",
		},
		{
			name:            "whitespace name",
			body:            `{"name":"   ","age":25,"email":"juan@mail.com"}`,
			expectedMessage: "name must not be empty",
		},
		{
			name:            "email without at sign",
			body:            `{"name":"Juan","age":25,"email":"juanmail.com"}`,
			expectedMessage: "email must contain an @",
		},
		{
			name:            "zero age",
			body:            `{"name":"Juan","age":0,"email":"juan@mail.com"}`,
			expectedMessage: "age must be greater than 0",
		},
		{
			name:            "negative age",
			body:            `{"name":"Juan","age":-3,"email":"juan@mail.com"}`,
			expectedMessage: "age must be greater than 0",
		},
		{
			name:            "malformed body",
			body:            `{"name":`,
			expectedMessage: "invalid request body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			resp := postJSON(t, ts.URL+"/api/users", tc.body)

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", resp.StatusCode)
			}

			out := decodeUserResponse(t, resp)
			if out.Success {
				t.Error("expected success=false")
			}
			if out.Error == nil || !strings.Contains(out.Error.Message, tc.expectedMessage) {
				t.Errorf("expected message containing %q, got %+v", tc.expectedMessage, out.Error)
			}

			// Invalid input must not mutate state.
			if len(ts.store.List()) != 0 {
				t.Error("expected no persisted users after rejected input")
			}
		})
	}
}

func TestListUsers_Empty(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var out UserListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if out.Data == nil {
		t.Error("expected empty array rather than null for an empty registry")
	}
	if len(out.Data) != 0 {
		t.Errorf("expected no users, got %d", len(out.Data))
	}
}

func TestGetUser(t *testing.T) {
	ts := newTestServer(t, nil)

	postJSON(t, ts.URL+"/api/users", `{"name":"Juan","age":25,"email":"juan@mail.com"}`)

	resp, err := http.Get(ts.URL + "/api/users/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	out := decodeUserResponse(t, resp)
	if out.Data == nil || out.Data.Name != "Juan" {
		t.Errorf("unexpected user: %+v", out.Data)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/users/42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestGetUser_InvalidID(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/users/abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t, nil)

	postJSON(t, ts.URL+"/api/users", `{"name":"Juan","age":25,"email":"juan@mail.com"}`)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/users/1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if len(ts.store.List()) != 0 {
		t.Error("expected empty registry after delete")
	}

	// Deleting again reports not found.
	again, err := http.DefaultClient.Do(req.Clone(req.Context()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer again.Body.Close()

	if again.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", again.StatusCode)
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/preference", strings.NewReader(`{"favoriteColor":"azul"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	get, err := http.Get(ts.URL + "/api/preference")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer get.Body.Close()

	var out PreferenceResponse
	if err := json.NewDecoder(get.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if out.Data == nil || out.Data.FavoriteColor != "azul" {
		t.Errorf("expected favorite color azul, got %+v", out.Data)
	}
}
