// Package models defines the core domain models for the savings group registry.
//
// # Models
//
//   - Group: a savings circle record with membership, contribution and loan parameters
//   - GroupUpdate: the single "last mutation" snapshot kept per group
//   - Transfer: a creation-fee payment from a group creator to the authority contract
//   - Settings: the registry-wide configuration visible to readers
//
// Principals (callers, creators, the authority contract) are opaque strings. Their
// formatting and verification belong to collaborators outside this package.
//
// # Design Principles
//
// 1. **Plain data**: models carry no behavior beyond enum validation helpers
// 2. **Stable encoding**: JSON tags are part of the persisted record format
// 3. **Immutable after creation**: only the fields named on GroupUpdate ever change
package models
