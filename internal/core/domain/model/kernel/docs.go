// Package kernel provides core domain primitives shared by the porterage domain model.
//
// The package includes:
//   - UUID: stable ledger keys and event identifiers
//   - Location: a normalized place label ("10/F", "WARD 3B")
//   - Identity: an opaque requester or porter contact identifier
//
// These primitives are immutable value objects whose zero values are invalid;
// they must be built with their constructors.
package kernel
