// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and voter token hashing.

# Voter Tokens

Ballots never store who cast them. Instead the engine stores a voter token:

	token, err := auth.HashVoterToken(userID, salt)

The token is the hex encoded HMAC-SHA256 of the identity keyed by the
VOTER_TOKEN_SALT secret. It is deterministic, so the same voter always maps
to the same token and duplicate votes can be detected on the token alone.
Without the salt the token cannot be linked back to a user.

# ID Generation

Random UUIDs for database records. ValidID rejects anything that is not a
UUID, so malformed path IDs never reach the store:

	id := auth.NewID()
	ok := auth.ValidID(id)
*/
package auth
