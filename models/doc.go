// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response and domain types shared by the
HTTP layer and package election.

# Status Values

Elections are upcoming, ongoing or completed. Candidacies are pending,
approved or rejected; applicants see these as pending, accepted or rejected
(or not_found when they never applied).

# Identity

Identity is the resolved caller. The zero value is anonymous, which is
allowed for public reads and guest applications only.

# Secrets

Ballot.VoterToken is tagged json:"-" and never leaves the server. Ballots
carry no user ID.
*/
package models
