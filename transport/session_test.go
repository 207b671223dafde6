// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

// fakeDispatcher records every request and plays back scripted results.
type fakeDispatcher struct {
	requests []*Request
	result   any
	err      error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, request *Request) (any, error) {
	d.requests = append(d.requests, request)
	return d.result, d.err
}

func parseTestDescription(t *testing.T) *Description {
	t.Helper()
	description, err := ParseDescription([]byte(describeDocument))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return description
}

func testCredentials(t *testing.T) *Credentials {
	t.Helper()
	credentials, err := ParseCredentials("consumer:token:secret")
	if err != nil {
		t.Fatalf("parsing credentials: %v", err)
	}
	t.Cleanup(func() { credentials.Close() })
	return credentials
}

func TestNewSessionRequiresDescription(t *testing.T) {
	_, err := NewSession(nil, SessionConfig{})
	if err == nil {
		t.Fatal("expected error for nil description")
	}
}

func TestNewSessionAnonymousBindsAnonHandlersOnly(t *testing.T) {
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Dispatcher: &fakeDispatcher{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if !session.Anonymous() {
		t.Error("session without credentials should be anonymous")
	}
	want := []string{"Machines", "Version"}
	if got := session.HandlerNames(); !slices.Equal(got, want) {
		t.Errorf("HandlerNames() = %v, want %v", got, want)
	}
	if _, ok := session.Handler("Machine"); ok {
		t.Error("auth-only Machine handler bound in an anonymous session")
	}

	// The anonymous Machines handler is the stripped-down variant.
	machines, ok := session.Handler("Machines")
	if !ok {
		t.Fatal("Machines handler missing")
	}
	if got := machines.ActionNames(); !slices.Equal(got, []string{"read"}) {
		t.Errorf("anonymous Machines actions = %v, want [read]", got)
	}
}

func TestNewSessionAuthenticatedPrefersAuthHandlers(t *testing.T) {
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  &fakeDispatcher{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if session.Anonymous() {
		t.Error("session with credentials should not be anonymous")
	}
	want := []string{"Machine", "Machines", "Version"}
	if got := session.HandlerNames(); !slices.Equal(got, want) {
		t.Errorf("HandlerNames() = %v, want %v", got, want)
	}

	// Authenticated sessions get the full Machines handler, and fall
	// back to the anonymous handler where no auth variant exists.
	machines, _ := session.Handler("Machines")
	if got := machines.ActionNames(); !slices.Equal(got, []string{"allocate", "create", "read"}) {
		t.Errorf("authenticated Machines actions = %v", got)
	}
	version, ok := session.Handler("Version")
	if !ok {
		t.Fatal("Version handler should fall back to its anon variant")
	}
	if version.Name() != "Version" {
		t.Errorf("Version handler name = %q", version.Name())
	}
}

func TestHandlerAccessors(t *testing.T) {
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  &fakeDispatcher{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	machine, ok := session.Handler("Machine")
	if !ok {
		t.Fatal("Machine handler missing")
	}
	if got := machine.URI(); !strings.Contains(got, "{system_id}") {
		t.Errorf("URI() = %q, want a {system_id} template", got)
	}
	if got := machine.Path(); got != "/fleet/api/2.0/machines/{system_id}/" {
		t.Errorf("Path() = %q", got)
	}
	if got := machine.Params(); !slices.Equal(got, []string{"system_id"}) {
		t.Errorf("Params() = %v", got)
	}
	if machine.Session() != session {
		t.Error("Session() should return the parent session")
	}

	deploy, ok := machine.Action("deploy")
	if !ok {
		t.Fatal("deploy action missing")
	}
	if deploy.FullName() != "Machine.deploy" {
		t.Errorf("FullName() = %q", deploy.FullName())
	}
	if deploy.Op() != "deploy" || deploy.Restful() {
		t.Errorf("deploy = op %q restful %v", deploy.Op(), deploy.Restful())
	}
	if deploy.Method() != "POST" {
		t.Errorf("Method() = %q", deploy.Method())
	}
	if deploy.Handler() != machine {
		t.Error("Handler() should return the parent handler")
	}

	if _, ok := machine.Action("destroy"); ok {
		t.Error("unknown action should not resolve")
	}
}

func TestActionCallInterpolatesURIParams(t *testing.T) {
	dispatcher := &fakeDispatcher{result: map[string]any{"system_id": "xc4n7d"}}
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  dispatcher,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	machine, _ := session.Handler("Machine")
	read, _ := machine.Action("read")

	result, err := read.Call(context.Background(), map[string]any{"system_id": "xc4n7d"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	record, ok := result.(map[string]any)
	if !ok || record["system_id"] != "xc4n7d" {
		t.Errorf("result = %#v", result)
	}

	if len(dispatcher.requests) != 1 {
		t.Fatalf("dispatched %d requests, want 1", len(dispatcher.requests))
	}
	request := dispatcher.requests[0]
	if request.URL != "http://region.example.com:5240/fleet/api/2.0/machines/xc4n7d/" {
		t.Errorf("URL = %q", request.URL)
	}
	if request.Method != "GET" || request.Op != "" {
		t.Errorf("request = %s op %q", request.Method, request.Op)
	}
	// The URI parameter must not leak into the call parameters.
	if len(request.Params) != 0 {
		t.Errorf("Params = %v, want empty", request.Params)
	}
}

func TestActionCallSplitsDataFromURIParams(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  dispatcher,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	machine, _ := session.Handler("Machine")
	deploy, _ := machine.Action("deploy")

	_, err = deploy.Call(context.Background(), map[string]any{
		"system_id":     "xc4n7d",
		"distro_series": "noble",
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	request := dispatcher.requests[0]
	if request.Op != "deploy" {
		t.Errorf("Op = %q", request.Op)
	}
	if !strings.HasSuffix(request.URL, "/machines/xc4n7d/") {
		t.Errorf("URL = %q", request.URL)
	}
	if len(request.Params) != 1 || request.Params["distro_series"] != "noble" {
		t.Errorf("Params = %v, want only distro_series", request.Params)
	}
}

func TestActionCallRejectsMissingURIParam(t *testing.T) {
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  &fakeDispatcher{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	machine, _ := session.Handler("Machine")
	read, _ := machine.Action("read")

	_, err = read.Call(context.Background(), map[string]any{"hostname": "rack-12"})
	if err == nil {
		t.Fatal("expected error for missing system_id")
	}
	if !strings.Contains(err.Error(), "system_id") {
		t.Errorf("error %q should name the missing parameter", err)
	}
}

func TestActionCallEscapesURIParams(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	session, err := NewSession(parseTestDescription(t), SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  dispatcher,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	machine, _ := session.Handler("Machine")
	read, _ := machine.Action("read")

	if _, err := read.Call(context.Background(), map[string]any{"system_id": "a/b c"}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	request := dispatcher.requests[0]
	if strings.Contains(request.URL, "a/b c") {
		t.Errorf("URL %q contains an unescaped parameter", request.URL)
	}
}

func TestActionParamsFallBackToHandler(t *testing.T) {
	document := `{
		"resources": [{
			"name": "ZonesHandler",
			"anon": null,
			"auth": {
				"name": "ZonesHandler",
				"doc": "",
				"uri": "http://region.example.com/api/2.0/zones/{name}/",
				"path": "/api/2.0/zones/{name}/",
				"params": ["name"],
				"actions": [
					{"name": "delete", "doc": "", "method": "DELETE", "op": "", "restful": true}
				]
			}
		}]
	}`
	description, err := ParseDescription([]byte(document))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	session, err := NewSession(description, SessionConfig{
		Credentials: testCredentials(t),
		Dispatcher:  &fakeDispatcher{},
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	zones, _ := session.Handler("Zones")
	remove, _ := zones.Action("delete")
	if got := remove.Params(); !slices.Equal(got, []string{"name"}) {
		t.Errorf("Params() = %v, want handler fallback [name]", got)
	}
}

func TestAPIURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"http://region.example.com:5240/fleet", "http://region.example.com:5240/fleet/api/2.0/"},
		{"http://region.example.com:5240/fleet/", "http://region.example.com:5240/fleet/api/2.0/"},
		{"http://region.example.com:5240/fleet/api/2.0/", "http://region.example.com:5240/fleet/api/2.0/"},
		{"http://region.example.com:5240/fleet/api/2.0", "http://region.example.com:5240/fleet/api/2.0/"},
		{"https://region.example.com", "https://region.example.com/api/2.0/"},
	}
	for _, test := range tests {
		got, err := APIURL(test.raw)
		if err != nil {
			t.Errorf("APIURL(%q) failed: %v", test.raw, err)
			continue
		}
		if got != test.want {
			t.Errorf("APIURL(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}

func TestAPIURLRejectsRelativeURL(t *testing.T) {
	if _, err := APIURL("region.example.com/fleet"); err == nil {
		t.Fatal("expected error for URL without a scheme")
	}
}

func TestConnectFetchesDescription(t *testing.T) {
	var describePath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		describePath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, describeDocument)
	}))
	defer server.Close()

	session, err := Connect(context.Background(), ConnectConfig{
		BaseURL: server.URL + "/fleet/",
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if describePath != "/fleet/api/2.0/describe/" {
		t.Errorf("describe path = %q", describePath)
	}
	if !session.Anonymous() {
		t.Error("session without credentials should be anonymous")
	}
	if _, ok := session.Handler("Machines"); !ok {
		t.Error("Machines handler missing after Connect")
	}
}

func TestConnectReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "region is still starting", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Connect(context.Background(), ConnectConfig{BaseURL: server.URL})
	if err == nil {
		t.Fatal("expected error for a 503 describe response")
	}
	if !IsCallError(err, http.StatusServiceUnavailable) {
		t.Errorf("expected a 503 CallError, got %v", err)
	}
}

func TestConnectRejectsNonDescribePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>login page</html>")
	}))
	defer server.Close()

	_, err := Connect(context.Background(), ConnectConfig{BaseURL: server.URL})
	if err == nil {
		t.Fatal("expected error when the describe endpoint returns HTML")
	}
}
