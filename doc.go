// Package uptask is the domain layer of a collaborative task manager.
//
// Account lifecycle:
//   - Users register with email and password, then confirm the account with
//     a short lived six digit code delivered by email. Login refuses
//     unconfirmed accounts and re-sends a code instead.
//   - Sessions are stateless HS256 JWTs minted by TokenService. Nothing is
//     persisted per session, so a token stays valid until its expiry.
//   - Password recovery reuses the same one-time codes. Codes are single
//     use: once matched they are deleted, whether or not they expired.
//
// Collaboration:
//   - A Project belongs to its manager and carries a team of collaborators.
//     Only the manager mutates the project and its tasks; team members read,
//     move tasks through the workflow, and attach notes.
//   - Task status changes append to an immutable history recording who
//     moved the task and when. Notes may only be removed by their author.
//
// Persistence goes through RepositoryManager, a Bun backed set of
// repositories sharing one transaction runner. The server subpackage
// exposes everything over HTTP.
package uptask
