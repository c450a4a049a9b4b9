// Package atelier implements account signup, session issuance, and the
// account read surface for the atelier service.
//
// Signup is a two phase flow:
//   - A registration request validates the identity is free, hashes the
//     password, mints a unique API key, and mails a signed activation
//     link. Nothing is persisted at this point; the full pending account
//     travels inside the token and the link stays valid for seven days.
//   - Visiting the activation link verifies the token and creates the
//     account, its zeroed usage statistics row, and, for operator
//     signups, the contractor profile, all in one transaction.
//
// Sessions:
//   - Login verifies credentials and issues a three hour JWT delivered
//     as an HTTP-only Authorization cookie. A readable User cookie
//     carries the role and account id for UI use and expires one second
//     earlier, so clients never see a marker for a dead session.
//
// Reads:
//   - The account endpoint serves a fixed projection that eager-loads
//     role, profiles, commissions, avatar, and statistics while
//     excluding the password hash, API keys, and raw foreign keys.
package atelier
