// Package cli provides the interactive admin console for the homepoint
// site.
//
// It wires the credential store, the query cache, the resource API modules
// and the form controllers behind a small REPL. Typical flow: restore or
// prompt for a session, then browse and edit the site content.
//
// Key features:
//   - Login / Logout / password reset
//   - Dashboard counters, domain list with expiry flags, projects and zones
//   - Edit master data, home hero and about sections
//   - Manage reviews, users, payment list and associate developer images
//   - Create and inspect projects
//   - Upload amenity images
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
