// Package auth is an embeddable authentication core: credential storage,
// password verification, signed session tokens, and cookie-based session
// propagation for server applications.
//
// Session lifecycle:
//   - Manager orchestrates registration, authentication, profile updates,
//     and deletion against an external UserStore, issuing a signed token on
//     every successful credential operation.
//   - ReadSession/WriteSession translate tokens to and from an HTTP cookie
//     on a fiber request context. A missing or invalid session is a routine
//     outcome, not an error.
//
// Storage:
//   - UserStore is a thin capability contract (find/insert/update/delete by
//     filter plus an upsert convenience). BunStore ships as the default
//     driver and pushes email/username uniqueness into the database so
//     concurrent registrations fail atomically on collision.
package auth
