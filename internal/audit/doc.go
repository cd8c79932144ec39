// Package audit runs the per-site timeleak audit as a sequence of steps.
//
// The pipeline pattern is used to take one site through multiple stages:
// sitemap discovery, recursive sitemap walking, per-post diffing, and
// site-wide orphan attachment detection. Each stage is implemented as a
// Step that receives the accumulated audit state and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running audits
// 4. Gate steps (vendor checks) slot in without touching the core stages
//
// Steps degrade rather than abort wherever possible: a post page that
// fails to fetch becomes a warning on the report, not a dead audit.
package audit
