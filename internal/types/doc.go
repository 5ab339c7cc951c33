/*
Package types defines the records exchanged with the admin API.

# Overview

The admin API owns every record; the console only holds transient
projections of them. The types here mirror the JSON payloads of the
/admin endpoints:

  - Stats: per-tier totals and the request counter for today
  - Payment: one entry of the pending payment queue
  - User and UsersPage: one page of registered accounts plus pagination
  - CreatedKey, KeyInfo, KeyUsage: API key administration

# Tiers

Tier is a closed set (free, premium, ultra). ParseTier normalizes user
input and rejects anything outside the set, which callers use to
validate before any request is sent.

# Action results

Mutating endpoints answer with a success flag and an optional message
or error. A 2xx response whose ActionResult does not report Succeeded
is treated by callers exactly like a non-2xx status.
*/
package types
