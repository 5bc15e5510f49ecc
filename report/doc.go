// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report renders election results as terminal tables.

Render writes one table per position with rank, candidate, party, votes and
share, followed by a one-line footer:

	1,234 ballots, voting ended 3 days ago

Candidates ranked within the position's seats are highlighted. Rejected
candidates keep their votes and are marked "(rejected)".
*/
package report
