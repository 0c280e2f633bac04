// Package auth stores user accounts and derives their permissions.
//
// Accounts live in a JSON file keyed by lower-cased username with bcrypt
// password hashes. A missing file is created with the default accounts on
// first open. Permissions are a fixed table per role and are computed, not
// stored.
package auth
