// Package useradmin provides a user and role administration backend: password
// credential handling, JWT issuance and validation, capability based
// permissions, and HTTP controllers for the admin API.
//
// Accounts and invitations:
//   - Users are provisioned without a password. CreateUserHandler stores an
//     opaque reset token and emails an invitation link; the invitee sets their
//     first password through the token endpoint, which also activates the
//     account and logs them in.
//
// Permissions:
//   - A Role is a flat set of capability strings such as "edit:users". There
//     is no hierarchy; HasPermission checks membership, and the *Own variants
//     additionally require that actor and target are the same user. The
//     request authorizer re-resolves the subject and its role from the store
//     on every request, so permission changes apply immediately.
//
// Tokens:
//   - Access tokens are stateless HS256 JWTs carrying only the subject id.
//     TokenService issues and validates them; middleware/authware extracts
//     the bearer token and wires validation into the router.
package useradmin
