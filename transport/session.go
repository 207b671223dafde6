// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/quarry-project/quarry/lib/netutil"
)

// SessionConfig holds configuration for creating a Session.
type SessionConfig struct {
	// Credentials select authenticated handlers and sign requests. Nil
	// means anonymous access.
	Credentials *Credentials
	// HTTPClient is used for all requests. If nil, a gzip-aware default
	// is constructed. Ignored when Dispatcher is set.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Dispatcher overrides the production HTTP dispatcher. Tests use
	// this to script responses without a server.
	Dispatcher Dispatcher
}

// Session is a bound view of one region controller's API: one handler
// per resource, selected according to whether credentials are present.
// Construction involves no network I/O; pair it with [Connect] to fetch
// the description first.
type Session struct {
	description *Description
	dispatcher  Dispatcher
	logger      *slog.Logger
	anonymous   bool
	handlers    map[string]*Handler
}

// NewSession builds a Session from an already-fetched API description.
//
// Handler selection mirrors the credential state: with credentials,
// each resource's authenticated handler is used, falling back to its
// anonymous one; without credentials only anonymous handlers are bound.
// Resources offering neither are skipped.
func NewSession(description *Description, config SessionConfig) (*Session, error) {
	if description == nil {
		return nil, fmt.Errorf("transport: description is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := config.Dispatcher
	if dispatcher == nil {
		dispatcher = NewHTTPDispatcher(HTTPDispatcherConfig{
			Credentials: config.Credentials,
			HTTPClient:  config.HTTPClient,
			Logger:      logger,
		})
	}

	session := &Session{
		description: description,
		dispatcher:  dispatcher,
		logger:      logger,
		anonymous:   config.Credentials == nil,
		handlers:    make(map[string]*Handler),
	}

	for _, resource := range description.Resources {
		handlerDescription := resource.Anon
		if config.Credentials != nil && resource.Auth != nil {
			handlerDescription = resource.Auth
		}
		if handlerDescription == nil {
			continue
		}
		handler := newHandler(session, handlerDescription)
		session.handlers[handler.Name()] = handler
	}

	return session, nil
}

// Description returns the API description this session was built from.
func (s *Session) Description() *Description {
	return s.description
}

// Anonymous reports whether the session was built without credentials.
func (s *Session) Anonymous() bool {
	return s.anonymous
}

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Handler returns the bound handler for a resource name (the derived
// name, e.g. "Machines").
func (s *Session) Handler(name string) (*Handler, bool) {
	handler, ok := s.handlers[name]
	return handler, ok
}

// HandlerNames returns the bound resource names in sorted order.
func (s *Session) HandlerNames() []string {
	return slices.Sorted(maps.Keys(s.handlers))
}

// Handler represents one resource's server-side handler: a URI template
// plus the set of actions the server accepts on it.
type Handler struct {
	session     *Session
	description *HandlerDescription
	name        string
	actions     map[string]*Action
}

func newHandler(session *Session, description *HandlerDescription) *Handler {
	handler := &Handler{
		session:     session,
		description: description,
		name:        DeriveResourceName(description.Name),
		actions:     make(map[string]*Action, len(description.Actions)),
	}
	for index := range description.Actions {
		action := &Action{
			handler:     handler,
			description: &description.Actions[index],
		}
		handler.actions[action.Name()] = action
	}
	return handler
}

// Name returns the derived resource name, e.g. "Machines".
func (h *Handler) Name() string {
	return h.name
}

// URI returns the handler's URI template. It may contain {name}
// replacement segments; these are interpolated by [Action.Call].
func (h *Handler) URI() string {
	return h.description.URI
}

// Path returns the path component of the handler's URI.
func (h *Handler) Path() string {
	return h.description.Path
}

// Params returns the names interpolated into the handler's URI. Every
// call through this handler must supply exactly these.
func (h *Handler) Params() []string {
	return h.description.Params
}

// Doc returns the server's documentation string for the handler.
func (h *Handler) Doc() string {
	return h.description.Doc
}

// Session returns the parent session.
func (h *Handler) Session() *Session {
	return h.session
}

// Action returns the named action, if the server declares it.
func (h *Handler) Action(name string) (*Action, bool) {
	action, ok := h.actions[name]
	return action, ok
}

// ActionNames returns the handler's action names in sorted order.
func (h *Handler) ActionNames() []string {
	return slices.Sorted(maps.Keys(h.actions))
}

// Action represents a single operation on a handler: an HTTP verb plus
// the handler's URI, optionally carrying a named non-restful operation.
type Action struct {
	handler     *Handler
	description *ActionDescription
}

// Name returns the action's name, e.g. "read" or "allocate".
func (a *Action) Name() string {
	return a.description.Name
}

// FullName returns the qualified name including the handler, e.g.
// "Machines.allocate". Used in error messages.
func (a *Action) FullName() string {
	return a.handler.Name() + "." + a.description.Name
}

// Op returns the operation name for non-restful actions, or "".
func (a *Action) Op() string {
	return a.description.Op
}

// Restful reports whether this is one of the four canonical
// create/read/update/delete actions.
func (a *Action) Restful() bool {
	return a.description.Restful
}

// Method returns the HTTP method.
func (a *Action) Method() string {
	return a.description.Method
}

// Doc returns the server's documentation string for the action.
func (a *Action) Doc() string {
	return a.description.Doc
}

// Params returns the parameter names this action accepts. When the
// description omits them, the handler's URI parameters apply.
func (a *Action) Params() []string {
	if a.description.Params != nil {
		return a.description.Params
	}
	return a.handler.description.Params
}

// Handler returns the parent handler.
func (a *Action) Handler() *Handler {
	return a.handler
}

// Call invokes the action. Parameters named in the handler's URI
// template are interpolated into the URL; all of them must be present.
// The rest travel as query string or request body depending on the
// HTTP method. The result is decoded per [Dispatcher].
func (a *Action) Call(ctx context.Context, params map[string]any) (any, error) {
	uri := a.handler.description.URI
	data := make(map[string]any, len(params))
	maps.Copy(data, params)

	for _, name := range a.handler.description.Params {
		value, ok := data[name]
		if !ok {
			expected := slices.Sorted(slices.Values(a.handler.description.Params))
			return nil, fmt.Errorf("transport: %s requires URI parameters %s; %q is missing",
				a.FullName(), strings.Join(expected, ", "), name)
		}
		delete(data, name)
		text, err := queryValue(name, value)
		if err != nil {
			return nil, err
		}
		uri = strings.ReplaceAll(uri, "{"+name+"}", url.PathEscape(text))
	}

	request := &Request{
		Method: a.description.Method,
		URL:    uri,
		Op:     a.description.Op,
		Params: data,
	}
	return a.handler.session.dispatcher.Dispatch(ctx, request)
}

// ConnectConfig holds configuration for [Connect].
type ConnectConfig struct {
	// BaseURL locates the region controller, e.g.
	// "http://region.example.com:5240/fleet/". The API version path and
	// trailing slash are appended when absent.
	BaseURL string
	// Credentials, HTTPClient, Logger, and Dispatcher carry the same
	// meanings as in [SessionConfig].
	Credentials *Credentials
	HTTPClient  *http.Client
	Logger      *slog.Logger
	Dispatcher  Dispatcher
}

// apiVersionPattern matches URL paths that already name an API version.
var apiVersionPattern = regexp.MustCompile(`/api/[0-9.]+/?$`)

// APIURL normalizes a region controller URL so its path ends with an
// explicit API version and a trailing slash. A bare host URL gains the
// default "api/2.0/" suffix.
func APIURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("transport: invalid region URL %q: %w", raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("transport: region URL %q needs a scheme and host", raw)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if !apiVersionPattern.MatchString(parsed.Path) {
		parsed.Path += "api/2.0/"
	}
	return parsed.String(), nil
}

// Connect fetches the API description from the region controller named
// by config.BaseURL and returns a session built from it. The describe
// endpoint is anonymous, so the fetch itself is never signed.
func Connect(ctx context.Context, config ConnectConfig) (*Session, error) {
	apiURL, err := APIURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	describeURL := apiURL + "describe/"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, describeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: creating describe request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("transport: fetching API description from %s: %w", describeURL, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: reading API description: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, &CallError{
			Status: response.StatusCode,
			Method: http.MethodGet,
			URL:    describeURL,
			Body:   body,
		}
	}

	description, err := ParseDescription(body)
	if err != nil {
		return nil, err
	}

	return NewSession(description, SessionConfig{
		Credentials: config.Credentials,
		HTTPClient:  config.HTTPClient,
		Logger:      config.Logger,
		Dispatcher:  config.Dispatcher,
	})
}
