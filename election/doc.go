// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements elections, positions, candidacies and ballots.

All operations hang off Service and take the caller's models.Identity.
Failures wrap one of the sentinel errors in errors.go; use Kind to map them
to a status code.

# Status

An election's effective status comes from its dates unless an admin set it
explicitly, which locks it. RunStatusSweep writes the computed statuses back
periodically.

# Ballots

A voter casts one ballot per position. The ballot stores an HMAC of the
voter's ID and the election ID, never the ID itself. The unique index on
(election, position, token) is what rejects a second ballot under
concurrency.
# Settings

Admins can cap the number of approved candidacies per election
(DefaultMaxCandidates until settings are saved; zero means no cap).
SetApproval enforces it.
*/
package election
