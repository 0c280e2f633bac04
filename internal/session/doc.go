// Package session holds per-user analysis state. A Session owns the table an
// operator loaded together with its column map and the last filters applied;
// a Registry maps bearer tokens to sessions and expires idle ones.
package session
