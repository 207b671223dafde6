// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides the low-level bindings to a remote Quarry
// region controller's Web API. These closely mirror the shape the server
// publishes in its self-describing API document; the origin package
// layers typed resource objects on top.
//
// A [Description] is the machine-readable API document fetched from the
// region's describe endpoint. It lists resources, each carrying up to
// two handler descriptions (anonymous and authenticated). [Connect]
// fetches the document and returns a ready [Session]; [NewSession]
// builds one from an already-fetched document, which keeps construction
// free of network I/O for tests and cached profiles.
//
// A [Session] selects one [Handler] per resource based on whether
// credentials are present: authenticated handlers when they are, falling
// back to anonymous ones, and anonymous handlers only otherwise. Each
// Handler exposes named [Action] values. [Action.Call] interpolates the
// handler's URI parameters, splits the remaining parameters into query
// string or request body by HTTP method, and hands the prepared
// [Request] to the session's [Dispatcher].
//
// [HTTPDispatcher] is the production Dispatcher. It signs requests with
// OAuth 1.0a PLAINTEXT when [Credentials] are configured, negotiates
// gzip transparently, tags each request with an X-Request-Id header,
// and decodes JSON responses. Non-2xx responses surface as [CallError]
// values carrying the status code and response body; callers branch
// with errors.As or [IsCallError]. Tests substitute their own
// Dispatcher to exercise callers without a server.
//
// [Credentials] hold the colon-separated API key triplet issued by the
// region controller. The token secret lives in an mlock-backed
// secret.Buffer rather than a plain string.
package transport
