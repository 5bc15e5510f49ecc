// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package users registers accounts and resolves the X-User-ID header to an
// identity.
package users
